//go:build nativegl

package raster

import _ "github.com/gogpu/glsurface/internal/nativegl" // "opengl" device
