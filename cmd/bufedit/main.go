// Command bufedit inspects, converts and edits wav/aiff files through a
// chunked bufferlist.
//
//	bufedit info in.wav
//	bufedit convert -bits 24 in.wav out.aif
//	bufedit apply -script edits.yaml -o out.wav in.wav
package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		logrus.Fatal(err)
	}
}
