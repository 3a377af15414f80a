// Package shaders holds the WGSL sources compiled into the editor.
package shaders

// Scene renders the combined scene buffers with Blinn-Phong shading.
// Group 0 holds per-frame data (camera, lights); group 1 is the
// per-draw uniform block bound with a dynamic offset.
const Scene = `
struct Camera {
    view_proj: mat4x4<f32>,
    eye: vec4<f32>,
};

struct Light {
    position: vec4<f32>,
    direction: vec4<f32>,
    color: vec4<f32>,     // rgb, intensity in w
    params: vec4<f32>,    // range, cos(cone), type, pad
};

struct Lights {
    count: vec4<u32>,
    items: array<Light, 16>,
};

struct Draw {
    model: mat4x4<f32>,
    base_color: vec4<f32>,
    material: vec4<f32>,  // metallic, roughness, ao, selected
    emissive: vec4<f32>,
};

@group(0) @binding(0) var<uniform> camera: Camera;
@group(0) @binding(1) var<uniform> lights: Lights;
@group(1) @binding(0) var<uniform> draw: Draw;

struct VertexIn {
    @location(0) position: vec3<f32>,
    @location(1) color: vec3<f32>,
    @location(2) normal: vec3<f32>,
    @location(3) uv: vec2<f32>,
};

struct VertexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) world_pos: vec3<f32>,
    @location(1) color: vec3<f32>,
    @location(2) normal: vec3<f32>,
    @location(3) uv: vec2<f32>,
};

@vertex
fn vs_main(in: VertexIn) -> VertexOut {
    var out: VertexOut;
    let world = draw.model * vec4<f32>(in.position, 1.0);
    out.clip = camera.view_proj * world;
    out.world_pos = world.xyz;
    out.color = in.color;
    // Non-uniform scale distorts normals; acceptable for an editor view.
    out.normal = (draw.model * vec4<f32>(in.normal, 0.0)).xyz;
    out.uv = in.uv;
    return out;
}

fn light_contribution(light: Light, n: vec3<f32>, world_pos: vec3<f32>, view_dir: vec3<f32>) -> vec3<f32> {
    let kind = u32(light.params.z);
    var l: vec3<f32>;
    var atten: f32 = 1.0;

    if (kind == 1u) { // directional
        l = normalize(-light.direction.xyz);
    } else {
        let to_light = light.position.xyz - world_pos;
        let dist = length(to_light);
        if (dist > light.params.x) {
            return vec3<f32>(0.0);
        }
        l = to_light / max(dist, 1e-4);
        atten = 1.0 / (1.0 + dist * dist * 0.1);
        if (kind == 2u) { // spot
            let cone = dot(-l, normalize(light.direction.xyz));
            if (cone < light.params.y) {
                return vec3<f32>(0.0);
            }
        }
    }

    let diff = max(dot(n, l), 0.0);
    let h = normalize(l + view_dir);
    let shininess = mix(64.0, 4.0, draw.material.y);
    let spec = pow(max(dot(n, h), 0.0), shininess) * (1.0 - draw.material.y);
    return light.color.rgb * light.color.w * atten * (diff + spec);
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    let n = normalize(in.normal);
    let view_dir = normalize(camera.eye.xyz - in.world_pos);
    let albedo = in.color * draw.base_color.rgb;

    var lit = albedo * 0.08 * draw.material.z; // ambient * ao
    for (var i = 0u; i < lights.count.x; i = i + 1u) {
        lit = lit + albedo * light_contribution(lights.items[i], n, in.world_pos, view_dir);
    }
    lit = lit + draw.emissive.rgb;

    // Selection tint.
    if (draw.material.w > 0.5) {
        lit = mix(lit, vec3<f32>(1.0, 0.6, 0.1), 0.25);
    }
    return vec4<f32>(lit, draw.base_color.a);
}
`

// Highlight redraws the selected mesh slightly inflated along its
// normals in a flat color, depth-tested against the scene.
const Highlight = `
struct Camera {
    view_proj: mat4x4<f32>,
    eye: vec4<f32>,
};

struct Draw {
    model: mat4x4<f32>,
    base_color: vec4<f32>,
    material: vec4<f32>,
    emissive: vec4<f32>,
};

@group(0) @binding(0) var<uniform> camera: Camera;
@group(1) @binding(0) var<uniform> draw: Draw;
@group(2) @binding(0) var<uniform> outline_color: vec4<f32>;

@vertex
fn vs_main(@location(0) position: vec3<f32>,
           @location(1) color: vec3<f32>,
           @location(2) normal: vec3<f32>,
           @location(3) uv: vec2<f32>) -> @builtin(position) vec4<f32> {
    let inflated = position + normal * 0.02;
    return camera.view_proj * draw.model * vec4<f32>(inflated, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return outline_color;
}
`

// Gizmo draws colored axis lines; vertices carry their own colors and
// positions are already in world space.
const Gizmo = `
struct Camera {
    view_proj: mat4x4<f32>,
    eye: vec4<f32>,
};

@group(0) @binding(0) var<uniform> camera: Camera;

struct VertexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec3<f32>,
};

@vertex
fn vs_main(@location(0) position: vec3<f32>,
           @location(1) color: vec3<f32>) -> VertexOut {
    var out: VertexOut;
    out.clip = camera.view_proj * vec4<f32>(position, 1.0);
    out.color = color;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return vec4<f32>(in.color, 1.0);
}
`

// Text blits glyph quads from the atlas texture in screen space.
const Text = `
@group(0) @binding(0) var atlas: texture_2d<f32>;
@group(0) @binding(1) var atlas_sampler: sampler;

struct VertexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec3<f32>,
};

@vertex
fn vs_main(@location(0) position: vec2<f32>,
           @location(1) uv: vec2<f32>,
           @location(2) color: vec3<f32>) -> VertexOut {
    var out: VertexOut;
    out.clip = vec4<f32>(position, 0.0, 1.0);
    out.uv = uv;
    out.color = color;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    let alpha = textureSample(atlas, atlas_sampler, in.uv).r;
    return vec4<f32>(in.color, alpha);
}
`
