package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"skillscope/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeDataset(t *testing.T, dir string) {
	t.Helper()

	files := map[string]string{
		skillsFile: "conceptUri,preferredLabel,altLabels,skillType,reuseLevel,description\n" +
			"uri/skill/python,Python,\"Python 3\nCPython\",skill/competence,cross-sector,computer programming in Python\n" +
			"uri/skill/sql,SQL,,skill/competence,cross-sector,querying relational databases\n" +
			"uri/skill/nolabel,terraform,,skill/competence,cross-sector,\n",
		occupationsFile: "conceptUri,preferredLabel,altLabels,iscoGroup,description\n" +
			"uri/occ/dev,software developer,programmer,2512,develops software systems\n" +
			"uri/occ/dba,database administrator,,2521,runs database platforms\n",
		relationsFile: "occupationUri,relationType,skillType,skillUri\n" +
			"uri/occ/dev,essential,skill/competence,uri/skill/python\n" +
			"uri/occ/dev,optional,skill/competence,uri/skill/sql\n" +
			"uri/occ/dba,essential,skill/competence,uri/skill/sql\n",
		"digitalSkillsCollection_en.csv": "conceptUri,preferredLabel\n" +
			"uri/skill/python,Python\n" +
			"uri/skill/sql,SQL\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)

	ds, err := Load(dir, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, ds.Skills, 3)
	assert.Equal(t, "Python", ds.Skills[0].Name)
	assert.Equal(t, []string{"Python 3", "CPython"}, ds.Skills[0].AltLabels)
	assert.Equal(t, []string{"digital"}, ds.Skills[0].Categories)
	assert.Empty(t, ds.Skills[2].Categories)

	require.Len(t, ds.Occupations, 2)
	assert.Equal(t, "2512", ds.Occupations[0].ISCOGroup)

	require.Len(t, ds.Relations, 3)
	assert.Equal(t, models.EssentialityEssential, ds.Relations[0].Essentiality)
}

func TestLoadMissingDatasetIsError(t *testing.T) {
	_, err := Load(t.TempDir(), zap.NewNop())
	assert.Error(t, err)
}

func TestLoadRejectsUnknownRelationType(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, relationsFile),
		[]byte("occupationUri,relationType,skillType,skillUri\nuri/occ/dev,mandatory,x,uri/skill/python\n"), 0o644))

	_, err := Load(dir, zap.NewNop())
	assert.ErrorContains(t, err, "unknown relation type")
}

func TestGraphLookups(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	ds, err := Load(dir, zap.NewNop())
	require.NoError(t, err)

	g := NewGraph(ds)

	essential, optional := g.RequiredSkills("uri/occ/dev")
	assert.Equal(t, []string{"uri/skill/python"}, essential)
	assert.Equal(t, []string{"uri/skill/sql"}, optional)

	essential, optional = g.RequiredSkills("uri/occ/unknown")
	assert.Empty(t, essential)
	assert.Empty(t, optional)

	usages := g.OccupationsUsing("uri/skill/sql")
	require.Len(t, usages, 2)
	assert.Equal(t, SkillUsage{OccupationURI: "uri/occ/dev", Essentiality: models.EssentialityOptional}, usages[0])
	assert.Equal(t, SkillUsage{OccupationURI: "uri/occ/dba", Essentiality: models.EssentialityEssential}, usages[1])

	assert.Equal(t, []string{"digital"}, g.CategoriesOf("uri/skill/python"))
	assert.Empty(t, g.CategoriesOf("uri/skill/nolabel"))

	assert.Equal(t, "Python", g.SkillName("uri/skill/python"))
	assert.Equal(t, "uri/skill/ghost", g.SkillName("uri/skill/ghost"))

	assert.Equal(t, []string{"uri/occ/dev", "uri/occ/dba"}, g.OccupationOrder())
}

func TestGraphEntityTexts(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	ds, err := Load(dir, zap.NewNop())
	require.NoError(t, err)

	g := NewGraph(ds)

	skillEntities := g.SkillEntities()
	require.Len(t, skillEntities, 3)
	assert.Equal(t, "uri/skill/python", skillEntities[0].URI)
	assert.Equal(t, "computer programming in Python", skillEntities[0].Text)
	// Entries without a description fall back to their labels.
	assert.Equal(t, "terraform", skillEntities[2].Text)

	occEntities := g.OccupationEntities()
	require.Len(t, occEntities, 2)
	assert.Equal(t, "develops software systems", occEntities[0].Text)
}
