package seeders

import (
	_ "embed"
	"fmt"
	"io"

	"maintenance-system/internal/entities"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type NamedItem struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
}

type UserSeed struct {
	Username   string  `yaml:"username"`
	Email      string  `yaml:"email"`
	Password   string  `yaml:"password"`
	Role       string  `yaml:"role"`
	Department *string `yaml:"department"`
	Team       string  `yaml:"team"`
}

type EquipmentSeed struct {
	Name         string  `yaml:"name"`
	SerialNumber string  `yaml:"serial_number"`
	Category     string  `yaml:"category"`
	Department   string  `yaml:"department"`
	Location     *string `yaml:"location"`
	Team         string  `yaml:"team"`
	Technician   string  `yaml:"technician"`
}

type WorkCenterSeed struct {
	Name        string  `yaml:"name"`
	Code        string  `yaml:"code"`
	Department  string  `yaml:"department"`
	Location    *string `yaml:"location"`
	Capacity    int     `yaml:"capacity"`
	CostPerHour int     `yaml:"cost_per_hour"`
	OEETarget   int     `yaml:"oee_target"`
}

type Data struct {
	Teams       []NamedItem      `yaml:"teams"`
	Categories  []NamedItem      `yaml:"categories"`
	Users       []UserSeed       `yaml:"users"`
	Equipment   []EquipmentSeed  `yaml:"equipment"`
	WorkCenters []WorkCenterSeed `yaml:"work_centers"`
}

// DefaultData returns the data set compiled into the binary.
func DefaultData() (*Data, error) {
	return parse(defaultSeed)
}

func LoadData(r io.Reader) (*Data, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parse(raw)
}

func parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks that every name reference resolves inside the file itself.
func (d *Data) Validate() error {
	teams := namesOf(d.Teams)
	categories := namesOf(d.Categories)

	users := make(map[string]UserSeed, len(d.Users))
	for _, u := range d.Users {
		if u.Username == "" || u.Email == "" || u.Password == "" {
			return fmt.Errorf("user %q: username, email and password are required", u.Username)
		}
		if !entities.UserRole(u.Role).Valid() {
			return fmt.Errorf("user %q: unknown role %q", u.Username, u.Role)
		}
		if u.Team != "" && !teams[u.Team] {
			return fmt.Errorf("user %q: unknown team %q", u.Username, u.Team)
		}
		users[u.Username] = u
	}

	for _, e := range d.Equipment {
		if e.SerialNumber == "" {
			return fmt.Errorf("equipment %q: serial_number is required", e.Name)
		}
		if e.Category != "" && !categories[e.Category] {
			return fmt.Errorf("equipment %q: unknown category %q", e.Name, e.Category)
		}
		if !teams[e.Team] {
			return fmt.Errorf("equipment %q: unknown team %q", e.Name, e.Team)
		}
		tech, ok := users[e.Technician]
		if !ok {
			return fmt.Errorf("equipment %q: unknown technician %q", e.Name, e.Technician)
		}
		if tech.Team != e.Team {
			return fmt.Errorf("equipment %q: technician %q is not in team %q", e.Name, e.Technician, e.Team)
		}
	}

	for _, wc := range d.WorkCenters {
		if wc.Code == "" {
			return fmt.Errorf("work center %q: code is required", wc.Name)
		}
		if wc.OEETarget < 0 || wc.OEETarget > 100 {
			return fmt.Errorf("work center %q: oee_target must be within 0..100", wc.Name)
		}
	}
	return nil
}

func namesOf(items []NamedItem) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, it := range items {
		out[it.Name] = true
	}
	return out
}
