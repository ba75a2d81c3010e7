package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"shapeview/internal/scene"
	"shapeview/internal/shapes"
)

// maxPointLights must match the light arrays in the fragment shaders. Unused slots stay black.
const maxPointLights = 4

const litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`

// flatFS shades each face with one normal taken from screen-space derivatives.
const flatFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 ambient;
uniform vec3 lightPos[4];
uniform vec3 lightColor[4];
out vec4 finalColor;
void main() {
  vec3 N = normalize(cross(dFdx(fragPosition), dFdy(fragPosition)));
  vec3 light = ambient;
  for (int i = 0; i < 4; i++) {
    vec3 L = normalize(lightPos[i] - fragPosition);
    light += lightColor[i] * max(dot(N, L), 0.0);
  }
  finalColor = vec4(colDiffuse.rgb * light, colDiffuse.a);
}
`

// standardFS is a cheap rough-dielectric approximation: Lambert diffuse plus a highlight
// that fades out as roughness goes to 1.
const standardFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 ambient;
uniform vec3 viewPos;
uniform float roughness;
uniform float metalness;
uniform vec3 lightPos[4];
uniform vec3 lightColor[4];
out vec4 finalColor;
void main() {
  vec3 N = normalize(fragNormal);
  vec3 V = normalize(viewPos - fragPosition);
  vec3 base = colDiffuse.rgb * (1.0 - metalness);
  float shininess = mix(64.0, 2.0, roughness);
  float specStrength = (1.0 - roughness) * 0.5;
  vec3 color = ambient * base;
  for (int i = 0; i < 4; i++) {
    vec3 L = normalize(lightPos[i] - fragPosition);
    float NdotL = max(dot(N, L), 0.0);
    vec3 H = normalize(L + V);
    float spec = pow(max(dot(N, H), 0.0), shininess) * specStrength;
    color += lightColor[i] * (base * NdotL + spec * step(0.0, NdotL));
  }
  finalColor = vec4(color, colDiffuse.a);
}
`

// lighting is the scene's light rig flattened into shader uniform arrays.
type lighting struct {
	ambient   [3]float32
	count     int32
	positions [maxPointLights * 3]float32
	colors    [maxPointLights * 3]float32
	viewPos   [3]float32
}

// collectLighting sums ambient lights and keeps the first maxPointLights point lights.
// Intensity scales color; point lights do not attenuate with distance.
func collectLighting(lights []scene.Light, viewPos shapes.Vec3) lighting {
	var lt lighting
	lt.viewPos = [3]float32{viewPos.X, viewPos.Y, viewPos.Z}
	for _, l := range lights {
		c := linearColor(l.Color)
		switch l.Kind {
		case scene.LightAmbient:
			for i := range 3 {
				lt.ambient[i] += c[i] * l.Intensity
			}
		case scene.LightPoint:
			if lt.count >= maxPointLights {
				continue
			}
			i := lt.count * 3
			lt.positions[i], lt.positions[i+1], lt.positions[i+2] = l.Position.X, l.Position.Y, l.Position.Z
			for j := range 3 {
				lt.colors[int(i)+j] = c[j] * l.Intensity
			}
			lt.count++
		}
	}
	return lt
}

// linearColor splits 0xRRGGBB into normalized channels.
func linearColor(c uint32) [3]float32 {
	return [3]float32{
		float32(c>>16&0xFF) / 255,
		float32(c>>8&0xFF) / 255,
		float32(c&0xFF) / 255,
	}
}

// rgba converts 0xRRGGBB plus opacity to a raylib color.
func rgba(c uint32, opacity float32) rl.Color {
	a := opacity
	if !(a >= 0) {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return rl.NewColor(uint8(c>>16), uint8(c>>8), uint8(c), uint8(a*255+0.5))
}

// program is a loaded shader plus the uniform locations set every frame.
type program struct {
	shader    rl.Shader
	ambient   int32
	viewPos   int32
	roughness int32
	metalness int32
	positions int32
	colors    int32
}

func loadProgram(fs string) program {
	sh := rl.LoadShaderFromMemory(litVS, fs)
	return program{
		shader:    sh,
		ambient:   rl.GetShaderLocation(sh, "ambient"),
		viewPos:   rl.GetShaderLocation(sh, "viewPos"),
		roughness: rl.GetShaderLocation(sh, "roughness"),
		metalness: rl.GetShaderLocation(sh, "metalness"),
		positions: rl.GetShaderLocation(sh, "lightPos"),
		colors:    rl.GetShaderLocation(sh, "lightColor"),
	}
}

func (p program) valid() bool {
	return rl.IsShaderValid(p.shader)
}

// setLighting uploads the per-frame uniforms. Locations the shader lacks are skipped.
func (p program) setLighting(lt lighting) {
	if !p.valid() {
		return
	}
	if p.ambient >= 0 {
		amb := lt.ambient
		rl.SetShaderValueV(p.shader, p.ambient, amb[:], rl.ShaderUniformVec3, 1)
	}
	if p.viewPos >= 0 {
		vp := lt.viewPos
		rl.SetShaderValueV(p.shader, p.viewPos, vp[:], rl.ShaderUniformVec3, 1)
	}
	if p.positions >= 0 {
		pos := lt.positions
		rl.SetShaderValueV(p.shader, p.positions, pos[:], rl.ShaderUniformVec3, maxPointLights)
	}
	if p.colors >= 0 {
		col := lt.colors
		rl.SetShaderValueV(p.shader, p.colors, col[:], rl.ShaderUniformVec3, maxPointLights)
	}
}

// setSurface uploads the material parameters of one shape.
func (p program) setSurface(m shapes.Material) {
	if !p.valid() {
		return
	}
	if p.roughness >= 0 {
		rl.SetShaderValue(p.shader, p.roughness, []float32{m.Roughness}, rl.ShaderUniformFloat)
	}
	if p.metalness >= 0 {
		rl.SetShaderValue(p.shader, p.metalness, []float32{m.Metalness}, rl.ShaderUniformFloat)
	}
}
