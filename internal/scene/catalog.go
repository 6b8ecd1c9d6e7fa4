package scene

import (
	_ "embed"
	"fmt"
	gomath "math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/orrery/pkg/math"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the declarative description of the solar system.
type Catalog struct {
	SkyRadius     float32 `yaml:"sky_radius"`
	StarHitRadius float32 `yaml:"star_hit_radius"`

	CentralBody    BodySpec            `yaml:"central_body"`
	Planets        []PlanetSpec        `yaml:"planets"`
	Constellations []ConstellationSpec `yaml:"constellations"`
}

// BodySpec describes a fixed body.
type BodySpec struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Size        float32 `yaml:"size"`
	Description string  `yaml:"description"`
}

// PlanetSpec describes an orbiting planet.
type PlanetSpec struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Size        float32 `yaml:"size"`
	Distance    float32 `yaml:"distance"`
	Speed       float32 `yaml:"speed"`
	Ring        bool    `yaml:"ring"`
	Moon        bool    `yaml:"moon"`
	Description string  `yaml:"description"`
	Stats       Stats   `yaml:"stats"`
}

// ConstellationSpec describes a group of stars on the sky sphere.
type ConstellationSpec struct {
	ID    string     `yaml:"id"`
	Name  string     `yaml:"name"`
	Stars []StarSpec `yaml:"stars"`
}

// StarSpec places a star by right ascension and declination in degrees.
type StarSpec struct {
	Name      string  `yaml:"name"`
	RA        float64 `yaml:"ra"`
	Dec       float64 `yaml:"dec"`
	Magnitude float32 `yaml:"magnitude"`
}

// Moon and ring geometry relative to the parent planet.
const (
	moonOffset    = 1.5
	moonRadius    = 0.2
	ringOuter     = 2.0
	ringThickness = 0.05
)

// DefaultCatalog returns the embedded solar-system catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if c.SkyRadius <= 0 {
		return fmt.Errorf("catalog sky_radius must be positive")
	}
	if c.CentralBody.ID == "" || c.CentralBody.Size <= 0 {
		return fmt.Errorf("catalog central_body needs an id and a positive size")
	}
	for i, p := range c.Planets {
		if p.ID == "" {
			return fmt.Errorf("planet %d has no id", i)
		}
		if p.Size <= 0 {
			return fmt.Errorf("planet %s: size must be positive", p.ID)
		}
	}
	for i, k := range c.Constellations {
		if k.ID == "" {
			return fmt.Errorf("constellation %d has no id", i)
		}
		if len(k.Stars) == 0 {
			return fmt.Errorf("constellation %s has no stars", k.ID)
		}
	}
	return nil
}

// Build registers every catalog entity and its renderable nodes.
func (c *Catalog) Build(reg *Registry, g *Graph) error {
	if err := c.buildCentralBody(reg, g); err != nil {
		return err
	}
	for _, p := range c.Planets {
		if err := c.buildPlanet(reg, g, p); err != nil {
			return fmt.Errorf("planet %s: %w", p.ID, err)
		}
	}
	for _, k := range c.Constellations {
		if err := c.buildConstellation(reg, g, k); err != nil {
			return fmt.Errorf("constellation %s: %w", k.ID, err)
		}
	}
	return nil
}

func (c *Catalog) buildCentralBody(reg *Registry, g *Graph) error {
	b := c.CentralBody
	if err := reg.Add(&Entity{
		ID:          b.ID,
		Name:        b.Name,
		Kind:        KindCentralBody,
		Size:        b.Size,
		Description: b.Description,
	}); err != nil {
		return err
	}
	id, err := g.Add(0, Node{Name: b.Name, Shape: ShapeSphere, Radius: b.Size})
	if err != nil {
		return err
	}
	return g.Mark(id, b.ID)
}

func (c *Catalog) buildPlanet(reg *Registry, g *Graph, p PlanetSpec) error {
	if err := reg.Add(&Entity{
		ID:          p.ID,
		Name:        p.Name,
		Kind:        KindPlanet,
		Size:        p.Size,
		Orbit:       &Orbit{Radius: p.Distance, Speed: p.Speed},
		Description: p.Description,
		Stats:       p.Stats,
	}); err != nil {
		return err
	}

	group, err := g.Add(0, Node{Name: p.Name})
	if err != nil {
		return err
	}
	if err := g.Mark(group, p.ID); err != nil {
		return err
	}
	if _, err := g.Add(group, Node{Name: p.Name + " surface", Shape: ShapeSphere, Radius: p.Size}); err != nil {
		return err
	}
	if p.Moon {
		if _, err := g.Add(group, Node{
			Name:   p.Name + " moon",
			Offset: math.Vec3{X: moonOffset},
			Shape:  ShapeSphere,
			Radius: moonRadius,
		}); err != nil {
			return err
		}
	}
	if p.Ring {
		outer := p.Size + ringOuter
		if _, err := g.Add(group, Node{
			Name:        p.Name + " ring",
			Shape:       ShapeBox,
			HalfExtents: math.Vec3{X: outer, Y: ringThickness, Z: outer},
		}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) buildConstellation(reg *Registry, g *Graph, k ConstellationSpec) error {
	positions := make([]math.Vec3, len(k.Stars))
	var center math.Vec3
	for i, s := range k.Stars {
		positions[i] = SkyPosition(s.RA, s.Dec, c.SkyRadius)
		center = center.Add(positions[i])
	}
	center = center.Scale(1 / float32(len(positions)))

	var spread float32
	for _, p := range positions {
		if d := p.Distance(center); d > spread {
			spread = d
		}
	}

	if err := reg.Add(&Entity{
		ID:     k.ID,
		Name:   k.Name,
		Kind:   KindConstellation,
		Size:   spread + c.StarHitRadius,
		Anchor: center,
	}); err != nil {
		return err
	}

	group, err := g.Add(0, Node{Name: k.Name})
	if err != nil {
		return err
	}
	if err := g.Mark(group, k.ID); err != nil {
		return err
	}

	for i, s := range k.Stars {
		star, err := g.Add(group, Node{Name: s.Name, Offset: positions[i].Sub(center)})
		if err != nil {
			return err
		}
		if _, err := g.Add(star, Node{Name: s.Name + " glow", Shape: ShapeSphere, Radius: starRadius(s.Magnitude)}); err != nil {
			return err
		}
		if c.StarHitRadius > 0 {
			if _, err := g.Add(star, Node{Name: s.Name + " hitbox", Shape: ShapeSphere, Radius: c.StarHitRadius, Hidden: true}); err != nil {
				return err
			}
		}
	}
	return nil
}

// SkyPosition converts right ascension and declination (degrees) to a point
// on a sphere of the given radius, Y up.
func SkyPosition(raDeg, decDeg float64, radius float32) math.Vec3 {
	phi := (90 - decDeg) * gomath.Pi / 180
	theta := raDeg * gomath.Pi / 180
	r := float64(radius)
	return math.Vec3{
		X: float32(r * gomath.Sin(phi) * gomath.Cos(theta)),
		Y: float32(r * gomath.Cos(phi)),
		Z: float32(r * gomath.Sin(phi) * gomath.Sin(theta)),
	}
}

// Brighter stars (lower magnitude) are drawn larger.
func starRadius(magnitude float32) float32 {
	switch {
	case magnitude < 1:
		return 2
	case magnitude < 2:
		return 1.5
	default:
		return 1
	}
}
