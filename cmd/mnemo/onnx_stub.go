//go:build !onnx

package main

import (
	"fmt"

	"github.com/mnemo-ai/mnemo/config"
	"github.com/mnemo-ai/mnemo/memory"
)

func newONNXEmbedder(_ *config.Config) (memory.Embedder, error) {
	return nil, fmt.Errorf("onnx embedder requires building with -tags onnx")
}
