package assets

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prism3d/prism/core"
)

// LoadOBJ reads a Wavefront OBJ file into a Model. Faces are fan
// triangulated; positions, normals and texture coordinates are
// de-indexed into the interleaved vertex layout. Material Kd colors
// from a referenced .mtl file become per-vertex colors.
func LoadOBJ(path string) (*core.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	m, err := parseOBJ(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("parse obj %q: %w", path, err)
	}
	m.Name = "obj:" + path
	return m, nil
}

type objIndex struct {
	v, vt, vn int // 1-based, 0 means absent
}

func parseOBJ(r io.Reader, mtlDir string) (*core.Model, error) {
	var (
		positions [][3]float32
		texcoords [][2]float32
		normals   [][3]float32

		materials = map[string][3]float32{}
		curColor  = [3]float32{1, 1, 1}

		model core.Model
		// De-duplicate identical v/vt/vn/color combinations.
		lookup = map[string]uint32{}
	)

	addVertex := func(idx objIndex) (uint32, error) {
		key := fmt.Sprintf("%d/%d/%d/%v", idx.v, idx.vt, idx.vn, curColor)
		if i, ok := lookup[key]; ok {
			return i, nil
		}

		if idx.v < 1 || idx.v > len(positions) {
			return 0, fmt.Errorf("vertex index %d out of range", idx.v)
		}
		vert := core.Vertex{
			Position: positions[idx.v-1],
			Color:    curColor,
		}
		if idx.vt >= 1 && idx.vt <= len(texcoords) {
			vert.UV = texcoords[idx.vt-1]
		}
		if idx.vn >= 1 && idx.vn <= len(normals) {
			vert.Normal = normals[idx.vn-1]
		}

		i := uint32(len(model.Vertices))
		model.Vertices = append(model.Vertices, vert)
		lookup[key] = i
		return i, nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			p, err := parseFloats3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, p)
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: short vt", lineNo)
			}
			u, err1 := parseFloat(fields[1])
			v, err2 := parseFloat(fields[2])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: bad vt", lineNo)
			}
			texcoords = append(texcoords, [2]float32{u, 1 - v})
		case "vn":
			n, err := parseFloats3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, n)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs 3+ vertices", lineNo)
			}
			idxs := make([]objIndex, 0, len(fields)-1)
			for _, fv := range fields[1:] {
				idx, err := parseFaceVertex(fv, len(positions), len(texcoords), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idxs = append(idxs, idx)
			}
			for i := 1; i+1 < len(idxs); i++ {
				a, err := addVertex(idxs[0])
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				b, err := addVertex(idxs[i])
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				c, err := addVertex(idxs[i+1])
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				model.Indices = append(model.Indices, a, b, c)
			}
		case "mtllib":
			if len(fields) >= 2 && mtlDir != "" {
				loaded, err := loadMTL(filepath.Join(mtlDir, fields[1]))
				if err == nil {
					for name, kd := range loaded {
						materials[name] = kd
					}
				}
				// Missing material libraries are tolerated; geometry
				// still loads with default colors.
			}
		case "usemtl":
			curColor = [3]float32{1, 1, 1}
			if len(fields) >= 2 {
				if kd, ok := materials[fields[1]]; ok {
					curColor = kd
				}
			}
		}
		// o, g, s and anything unknown are skipped.
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(model.Vertices) == 0 {
		return nil, fmt.Errorf("no geometry")
	}
	return &model, nil
}

// parseFaceVertex parses "v", "v/vt", "v//vn" or "v/vt/vn". Negative
// indices count from the end per the OBJ spec.
func parseFaceVertex(s string, nv, nvt, nvn int) (objIndex, error) {
	parts := strings.Split(s, "/")
	var idx objIndex

	resolve := func(raw string, n int) (int, error) {
		if raw == "" {
			return 0, nil
		}
		i, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("bad face index %q", raw)
		}
		if i < 0 {
			i = n + i + 1
		}
		return i, nil
	}

	var err error
	if idx.v, err = resolve(parts[0], nv); err != nil {
		return idx, err
	}
	if len(parts) > 1 {
		if idx.vt, err = resolve(parts[1], nvt); err != nil {
			return idx, err
		}
	}
	if len(parts) > 2 {
		if idx.vn, err = resolve(parts[2], nvn); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

// loadMTL extracts newmtl/Kd pairs; everything else in the material
// file is ignored.
func loadMTL(path string) (map[string][3]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := map[string][3]float32{}
	cur := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "newmtl":
			if len(fields) >= 2 {
				cur = fields[1]
				out[cur] = [3]float32{1, 1, 1}
			}
		case "Kd":
			if cur != "" && len(fields) >= 4 {
				kd, err := parseFloats3(fields[1:4])
				if err == nil {
					out[cur] = kd
				}
			}
		}
	}
	return out, scanner.Err()
}

func parseFloats3(fields []string) ([3]float32, error) {
	var out [3]float32
	if len(fields) < 3 {
		return out, fmt.Errorf("want 3 floats, have %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		v, err := parseFloat(fields[i])
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

func parseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	return float32(v), err
}
