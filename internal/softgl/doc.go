// Package softgl is the software device of the server backend, registered
// as "software". It rasterizes WebGL command streams without a GPU or a
// display, so servers can render for browsers without WebGL.
//
// # Shader model
//
// GLSL is not executed. When a shader compiles, its attribute and uniform
// declarations are scanned, and at link time names decide their role:
//
//   - position: the first attribute whose name contains "pos" or "vert",
//     else the first attribute
//   - color: an attribute containing "col", else a vec3/vec4 uniform
//     containing "col", else opaque white
//   - texture coordinates: a vec2 attribute containing "tex", "uv" or
//     "coord"; combined with the first sampler2D uniform the color is
//     modulated by the nearest texel
//   - transform: the product of all mat4 uniforms in declaration order,
//     vertex shader first
//
// Colors and texture coordinates are interpolated linearly in screen
// space.
//
// # Rasterization
//
// Triangles, strips, fans, lines, line strips and loops, and points are
// supported with depth testing, face culling, scissoring, color masks and
// FUNC_ADD blending. With anti-aliasing, triangle coverage comes from
// golang.org/x/image/vector. Row bands of large triangles are shaded in
// parallel.
//
// Framebuffer objects, stencil testing, texture copies and primitives
// crossing the eye plane are not supported. Such commands return errors
// wrapping recording.ErrUnsupported.
package softgl
