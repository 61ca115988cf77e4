// Package glsllower rewrites the compiler's generic loop-nest IR into the
// form the OpenGL runtime executes.
//
// Two passes run before code emission. ZeroLoopMins canonicalizes every
// GPU block and thread loop to iterate from zero, compensating inside the
// body, so the iteration domain matches the pixcoord convention of the
// runtime's shared vertex shader. InjectIntrinsics then rewrites buffer
// loads and stores inside GPU block loops into glsl_texture_load and
// glsl_texture_store intrinsic calls with texture-space coordinates:
// spatial coordinates are normalized to sample centers, channel
// coordinates stay integral.
//
// The passes live compiler-side; their only coupling to the runtime is
// the intrinsic names and the pixcoord/output_min/output_extent
// vocabulary.
package glsllower
