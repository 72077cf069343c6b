package datastore

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/samarth-project/samarth/internal/model"
)

// Registry holds the static dataset catalog with full provenance metadata.
// The built-in entries cover the bundled agriculture and meteorology files;
// a YAML file can add to or override them.
type Registry struct {
	categories map[string]map[string]model.DatasetMetadata
}

// NewRegistry creates a registry preloaded with the built-in datasets.
func NewRegistry() *Registry {
	r := &Registry{categories: map[string]map[string]model.DatasetMetadata{}}
	for _, m := range builtinDatasets {
		r.put(m)
	}
	return r
}

func (r *Registry) put(m model.DatasetMetadata) {
	if r.categories[m.Category] == nil {
		r.categories[m.Category] = map[string]model.DatasetMetadata{}
	}
	r.categories[m.Category][m.Name] = m
}

// Get returns the metadata for a dataset, or false when unregistered.
func (r *Registry) Get(category, name string) (model.DatasetMetadata, bool) {
	m, ok := r.categories[category][name]
	return m, ok
}

// All returns every registered dataset, ordered by category then name.
func (r *Registry) All() []model.DatasetMetadata {
	var out []model.DatasetMetadata
	for _, byName := range r.categories {
		for _, m := range byName {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Search returns datasets whose name, description, or category contains the
// term, case-insensitively.
func (r *Registry) Search(term string) []model.DatasetMetadata {
	term = strings.ToLower(term)
	var out []model.DatasetMetadata
	for _, m := range r.All() {
		if strings.Contains(strings.ToLower(m.Name), term) ||
			strings.Contains(strings.ToLower(m.Description), term) ||
			strings.Contains(strings.ToLower(m.Category), term) {
			out = append(out, m)
		}
	}
	return out
}

// LoadFile merges dataset entries from a YAML file, overriding built-ins
// with the same category and name.
func (r *Registry) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "registry: read %s", path)
	}

	var file map[string]map[string]model.DatasetMetadata
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return eris.Wrapf(err, "registry: parse %s", path)
	}

	for category, byName := range file {
		for name, m := range byName {
			m.Category = category
			m.Name = name
			r.put(m)
		}
	}
	return nil
}

var builtinDatasets = []model.DatasetMetadata{
	{
		ID:              "9ef84268-d588-465a-a308-a864a43d0070",
		Category:        "agriculture",
		Name:            "market_prices",
		LocalFile:       "9ef84268-d588-465a-a308-a864a43d0070.csv",
		Format:          "csv",
		Description:     "Daily Agricultural Market Prices - Real-time Data from Mandis",
		Source:          "Ministry of Agriculture & Farmers Welfare",
		URL:             "https://data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070",
		Publisher:       "Department of Agriculture and Co-operation",
		DataQuality:     "High",
		UpdateFrequency: "Daily",
		LastUpdated:     "2025-10-25",
		License:         "Open Government Data License - India",
		Coverage:        "Pan-India",
		Variables:       []string{"State", "District", "Market", "Commodity", "Variety", "Grade", "Price"},
	},
	{
		ID:              "processed_agriculture_data",
		Category:        "agriculture",
		Name:            "crop_production",
		LocalFile:       "processed_agriculture_data.csv",
		Format:          "csv",
		Description:     "Processed Crop Production and Market Data by State and District",
		Source:          "Ministry of Agriculture & Farmers Welfare",
		URL:             "https://data.gov.in/resource/processed-agriculture-data",
		Publisher:       "Directorate of Economics and Statistics",
		DataQuality:     "High",
		UpdateFrequency: "Daily",
		LastUpdated:     "2025-10-25",
		License:         "Open Government Data License - India",
		Coverage:        "Pan-India",
		Variables:       []string{"State", "District", "Crop", "Prices", "Market"},
	},
	{
		ID:              "sample_agriculture_crop_production",
		Category:        "agriculture",
		Name:            "state_wise_production",
		LocalFile:       "sample_agriculture_crop_production.csv",
		Format:          "csv",
		Description:     "Historical Crop Production Statistics by State (2016-2020)",
		Source:          "Ministry of Agriculture & Farmers Welfare",
		URL:             "https://data.gov.in/resource/sample-crop-production",
		Publisher:       "Directorate of Economics and Statistics",
		DataQuality:     "High",
		UpdateFrequency: "Annual",
		LastUpdated:     "2021-03-31",
		License:         "Open Government Data License - India",
		Coverage:        "Pan-India",
		Variables:       []string{"State", "Crop", "Production", "Area", "Yield", "Year"},
	},
	{
		ID:              "rainfall_by_districts_2019",
		Category:        "meteorology",
		Name:            "rainfall_districts",
		LocalFile:       "rainfall_by_districts_2019.csv",
		Format:          "csv",
		Description:     "District-wise Rainfall Data for Monsoon Season (2017-2018)",
		Source:          "India Meteorological Department (IMD)",
		URL:             "https://data.gov.in/resource/rainfall-districts-2019",
		Publisher:       "Ministry of Earth Sciences",
		DataQuality:     "High",
		UpdateFrequency: "Seasonal",
		LastUpdated:     "2019-12-31",
		License:         "Open Government Data License - India",
		Coverage:        "Pan-India",
		Variables:       []string{"State", "District", "Rainfall", "Season", "Year"},
	},
	{
		ID:              "sample_meteorology_rainfall_data",
		Category:        "meteorology",
		Name:            "rainfall_data",
		LocalFile:       "sample_meteorology_rainfall_data.csv",
		Format:          "csv",
		Description:     "State-wise Annual Rainfall Data with Seasonal Breakdown (2016-2020)",
		Source:          "India Meteorological Department (IMD)",
		URL:             "https://data.gov.in/resource/sample-rainfall-data",
		Publisher:       "Ministry of Earth Sciences",
		DataQuality:     "High",
		UpdateFrequency: "Annual",
		LastUpdated:     "2021-02-28",
		License:         "Open Government Data License - India",
		Coverage:        "Pan-India",
		Variables:       []string{"State", "Annual_Rainfall", "Monsoon_Rainfall", "Winter_Rainfall", "Summer_Rainfall"},
	},
}
