// Package sceneio persists scenes as JSON documents. Actors reference
// each other by file ID; geometry is referenced by source string and
// resolved through the caller's model resolver, never embedded.
package sceneio

// FormatVersion is written into every saved scene. Loading tolerates
// older versions; unknown fields are ignored.
const FormatVersion = "1.0"

type sceneFile struct {
	Descriptor descriptorRecord `json:"descriptor"`
	Actors     []actorRecord    `json:"actors"`
}

type descriptorRecord struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Tags         []string          `json:"tags,omitempty"`
	CreatedBy    string            `json:"createdBy,omitempty"`
	LastModified string            `json:"lastModified,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type actorRecord struct {
	ID       uint64            `json:"id"`
	Name     string            `json:"name"`
	Active   *bool             `json:"active,omitempty"`
	ParentID uint64            `json:"parentId,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`

	Transform *transformRecord `json:"transform,omitempty"`
	Mesh      *meshRecord      `json:"mesh,omitempty"`
	Light     *lightRecord     `json:"light,omitempty"`
	Material  *materialRecord  `json:"material,omitempty"`
	Physics   *physicsRecord   `json:"physics,omitempty"`
}

type transformRecord struct {
	Position [3]float32 `json:"position"`
	Rotation [4]float32 `json:"rotation"` // quaternion x,y,z,w
	Scale    [3]float32 `json:"scale"`
}

type meshRecord struct {
	Source  string `json:"source"`
	Visible *bool  `json:"visible,omitempty"`
}

type lightRecord struct {
	Type      string     `json:"type"`
	Color     [3]float32 `json:"color"`
	Intensity float32    `json:"intensity"`
	Range     float32    `json:"range"`
	ConeAngle float32    `json:"coneAngle,omitempty"`
}

type materialRecord struct {
	BaseColor [4]float32 `json:"baseColor"`
	Metallic  float32    `json:"metallic"`
	Roughness float32    `json:"roughness"`
	AO        float32    `json:"ao"`
	Emissive  [3]float32 `json:"emissive"`
	IOR       float32    `json:"ior"`
}

type physicsRecord struct {
	Mass         float32    `json:"mass"`
	Friction     float32    `json:"friction"`
	Restitution  float32    `json:"restitution"`
	IsStatic     bool       `json:"isStatic"`
	HalfExtents  [3]float32 `json:"halfExtents"`
	GravityScale float32    `json:"gravityScale"`
}
