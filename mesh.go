package imui

// TextureID identifies the texture a mesh samples from.
// TextureFontAtlas is the built-in glyph atlas; other values name
// user textures registered with the GPU backend.
type TextureID uint64

// TextureFontAtlas is the reserved texture ID of the glyph atlas.
const TextureFontAtlas TextureID = 0

// Vertex is one tessellated vertex: position in logical points,
// normalized texture coordinates, and a premultiplied color.
// Its GPU layout is float32x2 pos, float32x2 uv, unorm8x4 color
// (20 bytes, see VertexStride).
type Vertex struct {
	Pos   Pos2
	UV    Pos2
	Color Color32
}

// VertexStride is the byte size of one packed vertex.
const VertexStride = 20

// Mesh is a textured triangle list produced by tessellation.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Texture  TextureID
}

// ClippedMesh is a mesh with the scissor rectangle it must be drawn
// under, in logical points.
type ClippedMesh struct {
	ClipRect Rect
	Mesh     Mesh
}
