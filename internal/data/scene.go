package data

import (
	"fmt"
	"os"
	"strconv"

	"github.com/diveengine/dive/internal/core/ecs"
	"github.com/diveengine/dive/internal/units"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SceneLayerStart is the draw layer given to the first scene object that
// does not set one. Each following object gets the next layer.
const SceneLayerStart = 10

// drawLayerKeys are defaulted from the object's position in the scene.
var drawLayerKeys = []string{"Sprite.DrawLayer", "Text.DrawLayer"}

// SceneObject is one entity in a scene file. Template wins over Units when
// both are set.
type SceneObject struct {
	Name       string            `yaml:"name"`
	Template   string            `yaml:"template"`
	Units      []string          `yaml:"units"`
	X          *float64          `yaml:"x"`
	Y          *float64          `yaml:"y"`
	Properties map[string]string `yaml:"properties"`
}

type Scene struct {
	Name    string        `yaml:"name"`
	Objects []SceneObject `yaml:"objects"`
}

// LoadScene loads a scene from a YAML file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return ParseScene(data)
}

// ParseScene decodes a scene from YAML.
func ParseScene(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &s, nil
}

// ImportScene creates one entity per scene object, applies its properties
// and finalizes it. If any object fails, every entity created so far is
// removed and the error is returned.
func ImportScene(reg *ecs.Registry, s *Scene, log *zap.Logger) ([]*ecs.Entity, error) {
	if log == nil {
		log = zap.NewNop()
	}
	created := make([]*ecs.Entity, 0, len(s.Objects))
	layer := SceneLayerStart
	for i := range s.Objects {
		obj := &s.Objects[i]
		e, err := importObject(reg, obj, layer)
		if err != nil {
			for _, c := range created {
				reg.RemoveEntity(c)
			}
			return nil, fmt.Errorf("scene %q object %d (%s): %w", s.Name, i, obj.Name, err)
		}
		layer++
		created = append(created, e)
	}
	log.Info("scene imported", zap.String("scene", s.Name), zap.Int("entities", len(created)))
	return created, nil
}

func importObject(reg *ecs.Registry, obj *SceneObject, layer int) (*ecs.Entity, error) {
	var (
		e   *ecs.Entity
		err error
	)
	if obj.Template != "" {
		e, err = reg.CreateNamedEntityFromTemplate(obj.Template, obj.Name)
	} else {
		e, err = reg.CreateEntityWith(obj.Name, func(e *ecs.Entity) error {
			for _, name := range obj.Units {
				u, err := reg.NewUnit(name)
				if err != nil {
					return err
				}
				if _, err := e.AddUnit(u); err != nil {
					return fmt.Errorf("unit %q: %w", name, err)
				}
			}
			return nil
		})
	}
	if err != nil {
		return nil, err
	}

	props := ecs.Properties(obj.Properties).Merge(nil)
	if obj.X != nil || obj.Y != nil {
		if !ecs.Has[*units.Transform](e) {
			u, err := reg.NewUnit(units.TransformType.Name)
			if err == nil {
				_, err = e.AddUnit(u)
			}
			if err != nil {
				reg.RemoveEntity(e)
				return nil, fmt.Errorf("transform: %w", err)
			}
		}
		setDefault(props, "Transform.X", obj.X)
		setDefault(props, "Transform.Y", obj.Y)
	}
	for _, k := range drawLayerKeys {
		if _, ok := props[k]; !ok {
			props[k] = strconv.Itoa(layer)
		}
	}
	e.BuildProperties(props)
	e.FinalizeEntity()
	return e, nil
}

func setDefault(props ecs.Properties, key string, v *float64) {
	if v == nil {
		return
	}
	if _, ok := props[key]; !ok {
		props[key] = strconv.FormatFloat(*v, 'f', -1, 64)
	}
}
