package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

// Identifiers for the postgres and memory backends are sized like a hex ObjectID so that
// front-end routes built around document ids keep working unchanged.
var (
	NanoidSize     = 24
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

func NanoID() string {
	return NanoIDSize(NanoidSize)
}

func NanoIDSize(size int) string {
	if size == 0 {
		size = NanoidSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}
