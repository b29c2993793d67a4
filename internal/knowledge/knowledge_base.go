package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go-skin-analyzer/internal/logger"
	"go-skin-analyzer/pkg/models"
)

// Base is a local lookup of lesion classes to medical reference entries,
// backed by a JSON file. A missing or unreadable file is not fatal; the
// built-in defaults are used instead so explanations always have material
// to work from.
type Base struct {
	path    string
	entries map[string]models.KnowledgeEntry
}

// NewBase loads the knowledge base at path, falling back to the defaults
// when the file is absent or malformed.
func NewBase(path string) *Base {
	b := &Base{path: path}
	b.entries = b.load()
	return b
}

func (b *Base) load() map[string]models.KnowledgeEntry {
	data, err := os.ReadFile(b.path)
	if err != nil {
		logger.WithField("path", b.path).Warn("knowledge base not found, using defaults")
		return defaultEntries()
	}

	var entries map[string]models.KnowledgeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.WithError(err).Error("knowledge base unreadable, using defaults")
		return defaultEntries()
	}
	logger.WithField("path", b.path).Info("knowledge base loaded")
	return entries
}

// Retrieve returns the entry for a diagnosis, or false when the diagnosis
// is unknown.
func (b *Base) Retrieve(diagnosis string) (models.KnowledgeEntry, bool) {
	entry, ok := b.entries[diagnosis]
	return entry, ok
}

// Diagnoses lists every known diagnosis in sorted order.
func (b *Base) Diagnoses() []string {
	names := make([]string, 0, len(b.entries))
	for name := range b.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save writes the current entries back to the configured path, creating
// parent directories as needed.
func (b *Base) Save() error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create knowledge base directory: %w", err)
	}
	data, err := json.MarshalIndent(b.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode knowledge base: %w", err)
	}
	if err := os.WriteFile(b.path, data, 0o644); err != nil {
		return fmt.Errorf("write knowledge base: %w", err)
	}
	logger.WithField("path", b.path).Info("knowledge base saved")
	return nil
}

func defaultEntries() map[string]models.KnowledgeEntry {
	return map[string]models.KnowledgeEntry{
		"Melanoma": {
			Description: "Most serious type of skin cancer with highest mortality rate",
			Characteristics: []string{
				"Irregular borders",
				"Multiple colors (brown, black, tan, red)",
				"Size larger than a pencil eraser",
				"Asymmetrical shape",
				"May be itchy or bleeding",
			},
			RiskFactors: []string{
				"Excessive sun exposure",
				"Fair skin tone",
				"Family history",
				"Multiple moles",
			},
			Recommendation: "Urgent dermatology consultation recommended. Immediate professional evaluation required.",
		},
		"Basal Cell Carcinoma": {
			Description: "Most common type of skin cancer, grows slowly",
			Characteristics: []string{
				"Waxy, translucent bump",
				"Pearly appearance",
				"Bleeding or oozing center",
				"Brown, black, or blue patches",
				"Usually painless",
			},
			RiskFactors: []string{
				"Chronic sun exposure",
				"Light skin",
				"Age over 40",
			},
			Recommendation: "Schedule dermatology appointment. Usually treatable with high success rate.",
		},
		"Squamous Cell Carcinoma": {
			Description: "Second most common skin cancer, risk of spread if untreated",
			Characteristics: []string{
				"Red or pink bump",
				"Scaly or crusted surface",
				"Tender when touched",
				"May be bleeding or oozing",
				"Often on sun-exposed areas",
			},
			RiskFactors: []string{
				"Sun exposure",
				"Immunosuppression",
				"Age over 50",
			},
			Recommendation: "Medical evaluation recommended. Early treatment improves outcomes.",
		},
		"Benign Keratosis": {
			Description: "Common, non-cancerous skin growth, harmless",
			Characteristics: []string{
				"Brown, black, or tan waxy bumps",
				"Raised and scaly appearance",
				"Well-defined borders",
				"Often appear in clusters",
				"Slow growing",
			},
			RiskFactors: []string{
				"Age",
				"Genetics",
				"Sun exposure",
			},
			Recommendation: "Generally benign, no treatment necessary unless for cosmetic reasons.",
		},
		"Nevus": {
			Description: "Common mole, typically benign",
			Characteristics: []string{
				"Brown, tan, or flesh-colored",
				"Round or oval shape",
				"Flat or slightly raised",
				"Uniform color",
				"May have hair",
			},
			RiskFactors: []string{
				"Genetics",
				"Sun exposure",
			},
			Recommendation: "Regular monitoring recommended. Watch for changes in size, color, or shape.",
		},
	}
}
