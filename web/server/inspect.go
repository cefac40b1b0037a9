package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/material"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit           bool                   `json:"hit"`
	MaterialTree  string                 `json:"materialTree"` // "glass" or "metal"
	Point         [3]float64             `json:"point"`
	Normal        [3]float64             `json:"normal"`
	ShadingNormal [3]float64             `json:"shadingNormal"`
	Distance      float64                `json:"distance"`
	Properties    map[string]interface{} `json:"properties"`
}

// surfaceProperties describes the material parameters of a hit surface
func surfaceProperties(s *material.Surface) map[string]interface{} {
	properties := make(map[string]interface{})
	if s == nil {
		return properties
	}
	if s.Name != "" {
		properties["name"] = s.Name
	}
	properties["color"] = fmt.Sprintf("#%02x%02x%02x",
		channel(s.Color.X), channel(s.Color.Y), channel(s.Color.Z))
	properties["albedo"] = [3]float64{s.Color.X, s.Color.Y, s.Color.Z}
	properties["shininess"] = s.Shininess
	properties["metalness"] = s.Metalness
	properties["fresnel"] = s.Fresnel
	properties["ior"] = s.IOR
	properties["transparency"] = s.Transparency
	if !s.Emission.IsZero() {
		properties["emission"] = [3]float64{s.Emission.X, s.Emission.Y, s.Emission.Z}
	}
	return properties
}

func channel(v float64) int {
	return int(min(max(v, 0), 1) * 255)
}

// inspectPixel casts a ray through the center of a pixel, y = 0 being the top row
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) (*material.Intersection, bool) {
	camera := sceneObj.Camera
	camera.AspectRatio = float64(width) / float64(height)
	rays := geometry.NewRayGenerator(camera.View(), camera.Projection())

	s := (float64(pixelX) + 0.5) / float64(width)
	t := 1 - (float64(pixelY)+0.5)/float64(height)
	return sceneObj.Intersect(rays.Ray(s, t))
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseSceneRequest(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	sceneObj, err := s.createScene(r.Context(), req.Scene)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	hit, ok := inspectPixel(sceneObj, req.Width, req.Height, pixelX, pixelY)
	if !ok {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	tree := "glass"
	if sceneObj.MaterialTree() != nil {
		tree = "metal"
	}
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:           true,
		MaterialTree:  tree,
		Point:         [3]float64{hit.Position.X, hit.Position.Y, hit.Position.Z},
		Normal:        [3]float64{hit.GeometryNormal.X, hit.GeometryNormal.Y, hit.GeometryNormal.Z},
		ShadingNormal: [3]float64{hit.ShadingNormal.X, hit.ShadingNormal.Y, hit.ShadingNormal.Z},
		Distance:      hit.T,
		Properties:    surfaceProperties(hit.Surface),
	})
}
