// Package renderer draws scenes into offscreen OpenGL targets.
package renderer

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

var (
	//go:embed shaders/scene.vert
	sceneVertexShader string
	//go:embed shaders/scene.frag
	sceneFragmentShader string
	//go:embed shaders/depth.vert
	depthVertexShader string
	//go:embed shaders/depth.frag
	depthFragmentShader string
)

var (
	initOnce sync.Once
	initErr  error
)

// Init loads the GL function pointers for the current context and logs the
// driver. It must run on the thread that owns the context, after the
// context is created. Later calls return the first result.
func Init(log *zap.Logger) error {
	initOnce.Do(func() {
		if err := gl.Init(); err != nil {
			initErr = fmt.Errorf("failed to initialize OpenGL: %w", err)
			return
		}
		if log == nil {
			return
		}
		log.Info("OpenGL initialized",
			zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
			zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
			zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
		)
	})
	return initErr
}
