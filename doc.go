// Package bufferlist provides List, a mutable sequence of multichannel audio
// frames stored as a list of chunks.
//
// Structural edits (Append, Insert, Remove, Split, Join, Slice) move chunk
// references instead of samples. Only Join, Clone and Copy copy sample data.
//
// Sources accepted by Append and Insert:
//
//   - *Chunk: appended as is
//   - *List: its chunks are spliced in
//   - Sequence: each element, recursively
//   - Frames: a silent chunk of that many frames
//   - Samples: a single channel chunk of raw values
//
// Lists returned by Slice share sample storage with their source: writing
// samples through one is visible through the other. Clone returns an
// independent copy. Lists are not safe for concurrent use.
package bufferlist
