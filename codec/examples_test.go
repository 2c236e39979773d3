package codec_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/cwbudde/bufferlist"
	"github.com/cwbudde/bufferlist/codec"
)

func ExampleLoad() {
	dir, err := os.MkdirTemp("", "codec")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "silence.wav")

	l := bufferlist.From(bufferlist.Frames(10000), bufferlist.WithChannels(2))
	if err := codec.Save(path, l, codec.Info{SampleRate: 22050}); err != nil {
		log.Fatal(err)
	}

	loaded, info, err := codec.Load(path, 4096)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%d frames in %d chunks, %d bit %s\n", loaded.Len(), loaded.NumChunks(), info.BitDepth, info.Container)
	// Output: 10000 frames in 3 chunks, 16 bit wav
}

func ExampleDecoder_Duration() {
	file, err := os.CreateTemp("", "duration-*.wav")
	if err != nil {
		log.Fatal(err)
	}
	defer os.Remove(file.Name())
	defer file.Close()

	enc := codec.NewEncoder(file, 8000, 16, 1, codec.FormatPCM)
	if err := enc.WriteList(bufferlist.From(bufferlist.Frames(2000))); err != nil {
		log.Fatal(err)
	}

	if err := enc.Close(); err != nil {
		log.Fatal(err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		log.Fatal(err)
	}

	dur, err := codec.NewDecoder(file).Duration()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(dur)
	// Output: 250ms
}
