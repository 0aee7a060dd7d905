//go:build onnx

package main

import (
	"github.com/mnemo-ai/mnemo/config"
	"github.com/mnemo-ai/mnemo/memory"
	"github.com/mnemo-ai/mnemo/memory/embedder/onnx"
)

func newONNXEmbedder(cfg *config.Config) (memory.Embedder, error) {
	return onnx.New(onnx.Config{
		ModelPath:     cfg.Memory.ONNXModelPath,
		TokenizerPath: cfg.Memory.ONNXTokenizerPath,
		Dimensions:    cfg.Memory.Dimensions,
	})
}
