package graphics

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"shapeview/internal/scene"
	"shapeview/internal/shapes"
)

// ErrReleased is returned by Render after Release.
var ErrReleased = errors.New("graphics: surface released")

// Surface is an off-screen render target one mounted scene draws into. The host composites
// attached surfaces onto the window every frame. All methods must run on the frame thread.
type Surface struct {
	target        rl.RenderTexture2D
	width, height int

	meshes   *meshCache
	flat     program
	standard program
	flatMtl  rl.Material
	stdMtl   rl.Material

	background  rl.Texture2D
	hasBackdrop bool
	released    bool
}

// NewSurface allocates a width x height surface. The window must already be open.
func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("graphics: surface size %dx%d", width, height)
	}
	target := rl.LoadRenderTexture(int32(width), int32(height))
	if !rl.IsRenderTextureValid(target) {
		return nil, fmt.Errorf("graphics: render texture %dx%d could not be created", width, height)
	}
	s := &Surface{
		target:   target,
		width:    width,
		height:   height,
		meshes:   newMeshCache(),
		flat:     loadProgram(flatFS),
		standard: loadProgram(standardFS),
		flatMtl:  rl.LoadMaterialDefault(),
		stdMtl:   rl.LoadMaterialDefault(),
	}
	if s.flat.valid() {
		s.flatMtl.Shader = s.flat.shader
	}
	if s.standard.valid() {
		s.stdMtl.Shader = s.standard.shader
	}
	return s, nil
}

// Size returns the surface size in pixels.
func (s *Surface) Size() (int, int) {
	return s.width, s.height
}

// Resize reallocates the render target. Non-positive sizes and no-op resizes are ignored.
func (s *Surface) Resize(width, height int) {
	if s.released || width <= 0 || height <= 0 || (width == s.width && height == s.height) {
		return
	}
	next := rl.LoadRenderTexture(int32(width), int32(height))
	if !rl.IsRenderTextureValid(next) {
		return
	}
	rl.UnloadRenderTexture(s.target)
	s.target = next
	s.width, s.height = width, height
}

// Texture returns the color buffer the host composites.
func (s *Surface) Texture() rl.Texture2D {
	return s.target.Texture
}

// Render draws scn into the surface: backdrop first, then every shape lit by the scene lights.
func (s *Surface) Render(scn *scene.Scene) error {
	if s.released {
		return ErrReleased
	}
	s.syncBackground(scn)

	rl.BeginTextureMode(s.target)
	defer rl.EndTextureMode()
	rl.ClearBackground(rl.Black)
	if s.hasBackdrop {
		src := rl.NewRectangle(0, 0, float32(s.background.Width), float32(s.background.Height))
		dst := rl.NewRectangle(0, 0, float32(s.width), float32(s.height))
		rl.DrawTexturePro(s.background, src, dst, rl.Vector2{}, 0, rl.White)
	}

	cam := scn.Camera
	rl.BeginMode3D(rl.Camera3D{
		Position:   vec3(cam.Position),
		Target:     vec3(cam.Target),
		Up:         vec3(cam.Up),
		Fovy:       cam.FovY,
		Projection: rl.CameraPerspective,
	})
	defer rl.EndMode3D()
	rl.SetMatrixProjection(matrix(cam.Projection()))

	lt := collectLighting(scn.Lights, cam.Position)
	s.flat.setLighting(lt)
	s.standard.setLighting(lt)
	for _, sh := range scn.Shapes() {
		s.drawShape(sh)
	}
	return nil
}

func (s *Surface) drawShape(sh *shapes.Shape) {
	mesh, ok := s.meshes.get(sh.Geometry)
	if !ok {
		return
	}
	mtl, prog := s.flatMtl, s.flat
	if sh.Material.Kind == shapes.MaterialStandard {
		mtl, prog = s.stdMtl, s.standard
	}
	prog.setSurface(sh.Material)
	if albedo := mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = rgba(sh.Material.Color, sh.Material.Opacity)
	}
	rl.DrawMesh(mesh, mtl, modelMatrix(sh.Position, sh.Rotation))
}

// syncBackground uploads the backdrop once it has been decoded.
func (s *Surface) syncBackground(scn *scene.Scene) {
	if s.hasBackdrop {
		return
	}
	bg := scn.Background()
	if bg.Image == nil {
		return
	}
	img := rl.NewImageFromImage(bg.Image)
	s.background = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	s.hasBackdrop = rl.IsTextureValid(s.background)
}

// Release frees the render target, meshes, shaders and backdrop. Safe to call twice.
func (s *Surface) Release() {
	if s.released {
		return
	}
	s.released = true
	s.meshes.unload()
	if s.hasBackdrop {
		rl.UnloadTexture(s.background)
		s.hasBackdrop = false
	}
	// UnloadMaterial frees the attached shader too.
	rl.UnloadMaterial(s.flatMtl)
	rl.UnloadMaterial(s.stdMtl)
	rl.UnloadRenderTexture(s.target)
}

// Meshes returns how many distinct meshes the surface has uploaded.
func (s *Surface) Meshes() int {
	return s.meshes.len()
}

func vec3(v shapes.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X, v.Y, v.Z)
}

// matrix converts a column-major Mat4 into raylib's matrix layout.
func matrix(m scene.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

// modelMatrix rotates about X, then Y, then Z, then translates to pos.
func modelMatrix(pos, rot shapes.Vec3) rl.Matrix {
	return rl.MatrixMultiply(
		rl.MatrixRotateXYZ(rl.NewVector3(rot.X, rot.Y, rot.Z)),
		rl.MatrixTranslate(pos.X, pos.Y, pos.Z),
	)
}
