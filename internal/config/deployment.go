package config

// Deployment is the per-site configuration profile: catalogs of places
// and devices, the delete confirmation text and whether login is
// required. Profiles are resolved once at startup and injected; no code
// branches on the deployment name at runtime.
type Deployment struct {
	Name           string            `yaml:"name"`
	Congregation   string            `yaml:"congregation"`
	SafeDeleteText string            `yaml:"safe_delete_text"`
	Places         []string          `yaml:"places"`
	Devices        []string          `yaml:"devices"`
	FixedPlaces    map[string]string `yaml:"fixed_places"` // device -> forced place
	Auth           bool              `yaml:"auth"`
	WhatsApp       string            `yaml:"whatsapp"`
}

// Profile returns the built-in deployment profile for the given name.
// Unknown names resolve to an empty, unconfigured profile.
func Profile(name string) Deployment {
	switch name {
	case "esplanada":
		return Deployment{
			Name:           "esplanada",
			Congregation:   "Jardim Esplanada",
			SafeDeleteText: "Esplanada",
			Places: []string{
				"Santos Dumont - Portaria 14 Bis",
				"Santos Dumont - Portaria Ademar de Barros",
				"Sesc",
				"Feira na Santa Clara (Sexta-Feira)",
				"Praça Romão Gomes",
				"Vicentina Aranha",
				"Hospital Santos Dumont",
			},
			Devices:  []string{"Carrinho 1", "Display 1"},
			Auth:     true,
			WhatsApp: "5512996456249",
		}
	case "aquarius":
		return Deployment{
			Name:           "aquarius",
			Congregation:   "Aquarius",
			SafeDeleteText: "Aquarius",
			Places:         []string{"Todo Aquarius"},
			Devices:        []string{"Carrinho 2", "Display 2"},
			Auth:           false,
			WhatsApp:       "553184371888",
		}
	default:
		return Deployment{Name: "unconfigured", SafeDeleteText: "DEPLOY_NOT_SET"}
	}
}

// HasDevice reports whether the device belongs to this deployment.
func (d Deployment) HasDevice(device string) bool {
	for _, known := range d.Devices {
		if known == device {
			return true
		}
	}
	return false
}

// HasPlace reports whether the place belongs to this deployment.
func (d Deployment) HasPlace(place string) bool {
	for _, known := range d.Places {
		if known == place {
			return true
		}
	}
	return false
}

// PlaceFor returns the forced place for a device, or empty when the
// device has no fixed place.
func (d Deployment) PlaceFor(device string) string {
	return d.FixedPlaces[device]
}
