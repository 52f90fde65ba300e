package taxonomy

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"skillscope/internal/models"

	"go.uber.org/zap"
)

const (
	skillsFile      = "skills_en.csv"
	occupationsFile = "occupations_en.csv"
	relationsFile   = "occupationSkillRelations_en.csv"
)

// categoryFiles maps a category tag to the collection file listing its
// member skills. Missing collection files are skipped, not fatal.
var categoryFiles = map[string]string{
	"digital":     "digitalSkillsCollection_en.csv",
	"green":       "greenSkillsCollection_en.csv",
	"transversal": "transversalSkillsCollection_en.csv",
	"language":    "languageSkillsCollection_en.csv",
	"research":    "researchSkillsCollection_en.csv",
	"digComp":     "digCompSkillsCollection_en.csv",
}

// Dataset is the raw taxonomy export, loaded once at process start.
// Slice order preserves file order, which downstream code relies on for
// deterministic tie-breaking.
type Dataset struct {
	Skills      []models.Skill
	Occupations []models.Occupation
	Relations   []models.Relation
}

// Load reads the taxonomy CSV export from dir. A missing or corrupt
// skills, occupations, or relations file is an error; callers treat it
// as fatal at startup.
func Load(dir string, logger *zap.Logger) (*Dataset, error) {
	skills, err := loadSkills(filepath.Join(dir, skillsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}

	occupations, err := loadOccupations(filepath.Join(dir, occupationsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load occupations: %w", err)
	}

	relations, err := loadRelations(filepath.Join(dir, relationsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load relations: %w", err)
	}

	categories, err := loadCategories(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load skill categories: %w", err)
	}
	for i := range skills {
		skills[i].Categories = categories[skills[i].URI]
	}

	logger.Info("Taxonomy dataset loaded",
		zap.Int("skills", len(skills)),
		zap.Int("occupations", len(occupations)),
		zap.Int("relations", len(relations)),
		zap.Int("categorized_skills", len(categories)),
	)

	return &Dataset{
		Skills:      skills,
		Occupations: occupations,
		Relations:   relations,
	}, nil
}

func loadSkills(path string) ([]models.Skill, error) {
	var skills []models.Skill
	err := readCSV(path, func(row map[string]string) error {
		uri := row["conceptUri"]
		if uri == "" {
			return nil
		}
		skills = append(skills, models.Skill{
			URI:         uri,
			Name:        row["preferredLabel"],
			AltLabels:   splitAltLabels(row["altLabels"]),
			SkillType:   row["skillType"],
			ReuseLevel:  row["reuseLevel"],
			Description: row["description"],
		})
		return nil
	})
	return skills, err
}

func loadOccupations(path string) ([]models.Occupation, error) {
	var occupations []models.Occupation
	err := readCSV(path, func(row map[string]string) error {
		uri := row["conceptUri"]
		if uri == "" {
			return nil
		}
		occupations = append(occupations, models.Occupation{
			URI:         uri,
			Name:        row["preferredLabel"],
			AltLabels:   splitAltLabels(row["altLabels"]),
			ISCOGroup:   row["iscoGroup"],
			Description: row["description"],
		})
		return nil
	})
	return occupations, err
}

func loadRelations(path string) ([]models.Relation, error) {
	var relations []models.Relation
	err := readCSV(path, func(row map[string]string) error {
		occURI := row["occupationUri"]
		skillURI := row["skillUri"]
		relationType := models.Essentiality(row["relationType"])
		if occURI == "" || skillURI == "" {
			return nil
		}
		if relationType != models.EssentialityEssential && relationType != models.EssentialityOptional {
			return fmt.Errorf("unknown relation type %q for %s", row["relationType"], occURI)
		}
		relations = append(relations, models.Relation{
			OccupationURI: occURI,
			SkillURI:      skillURI,
			Essentiality:  relationType,
		})
		return nil
	})
	return relations, err
}

func loadCategories(dir string, logger *zap.Logger) (map[string][]string, error) {
	categories := make(map[string][]string)
	for category, filename := range categoryFiles {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			logger.Debug("Category collection not present", zap.String("file", filename))
			continue
		}
		err := readCSV(path, func(row map[string]string) error {
			if uri := row["conceptUri"]; uri != "" {
				categories[uri] = append(categories[uri], category)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("category file %s: %w", filename, err)
		}
	}
	return categories, nil
}

// readCSV streams path row by row, exposing each record as a
// header-name → value map.
func readCSV(path string, handle func(row map[string]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", filepath.Base(path), err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		if err := handle(row); err != nil {
			return err
		}
	}
}

// splitAltLabels parses the newline-separated alternative labels column.
func splitAltLabels(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var labels []string
	for _, label := range strings.Split(raw, "\n") {
		if label = strings.TrimSpace(label); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}
