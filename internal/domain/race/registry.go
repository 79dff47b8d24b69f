package race

import "strings"

// Definition describes a race the service knows how to load.
type Definition struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	URLPath string `json:"url_path"`
	Year    int    `json:"year"`
}

// ResultPrefix is the stage URL prefix of season results belonging to this race.
func (d Definition) ResultPrefix() string {
	return strings.TrimSuffix(d.URLPath, "/") + "/"
}

func (d Definition) StartlistPath() string {
	return strings.TrimSuffix(d.URLPath, "/") + "/startlist"
}

var supportedRaces = map[string]Definition{
	"TDF_FEMMES_2025": {
		Key:     "TDF_FEMMES_2025",
		Name:    "Tour de France Femmes 2025",
		URLPath: "race/tour-de-france-femmes/2025",
		Year:    2025,
	},
}

// Lookup returns the definition registered under key.
func Lookup(key string) (Definition, bool) {
	def, ok := supportedRaces[strings.ToUpper(strings.TrimSpace(key))]
	return def, ok
}

// SupportedKeys lists registered race keys.
func SupportedKeys() []string {
	out := make([]string, 0, len(supportedRaces))
	for key := range supportedRaces {
		out = append(out, key)
	}
	return out
}
