package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		SkillsFile:    writeFile(t, dir, "skills.txt", "python\nsql\n\nexcel\n"),
		CompaniesFile: writeFile(t, dir, "companies.txt", "Google Inc\n"),
		JobTitlesFile: writeFile(t, dir, "titles.txt", "Data Analyst\nSoftware Engineer\n"),
		LocationsFile: writeFile(t, dir, "locations.txt", "New York\n"),
		RolesFile: writeFile(t, dir, "roles.csv",
			"role,skills\nData Analyst,\"python, sql, excel\"\nWeb Developer,\"html, css\"\n"),
	}

	c := Load(cfg, zerolog.Nop())
	require.NotNil(t, c)

	assert.Equal(t, []string{"python", "sql", "excel"}, c.Skills, "空行应被跳过")
	assert.Equal(t, []string{"Google Inc"}, c.Companies)
	assert.Len(t, c.JobTitles, 2)
	assert.Equal(t, []string{"New York"}, c.Locations)

	require.Len(t, c.Roles, 2, "表头行不应计入角色")
	assert.Equal(t, "Data Analyst", c.Roles[0].Role)
	assert.Equal(t, "python, sql, excel", c.Roles[0].Skills)
}

func TestLoadMissingFilesSoftFail(t *testing.T) {
	cfg := Config{
		SkillsFile: "/nonexistent/skills.txt",
		RolesFile:  "/nonexistent/roles.csv",
	}

	c := Load(cfg, zerolog.Nop())
	require.NotNil(t, c, "语料文件缺失不应中断加载")
	assert.Empty(t, c.Skills)
	assert.Empty(t, c.Roles)
}

func TestLoadRolesSkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		RolesFile: writeFile(t, dir, "roles.csv",
			"role,skills\nonly-one-column\nData Analyst,\"python, sql\"\n ,empty-role\n"),
	}

	c := Load(cfg, zerolog.Nop())
	require.Len(t, c.Roles, 1, "列数不足或角色名为空的行应被跳过")
	assert.Equal(t, "Data Analyst", c.Roles[0].Role)
}
