package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-apply-agent/internal/models"
)

func TestParseMarkdownTables(t *testing.T) {
	readme := `
# Summer Internships

| Company | Role | Location | Application | Date Posted |
| --- | --- | --- | --- | --- |
| Acme Corp | Software Engineer Intern | Remote in USA | [Apply](https://boards.greenhouse.io/acme/jobs/123) | Aug 20 |
| ↳ | Backend Intern | New York, NY | [Apply](https://jobs.lever.co/acme/456) | Aug 21 |
| Dead Inc | Platform Intern 🔒 | Austin, TX | [Apply](https://example.com/apply) | Aug 10 |
| NoLink LLC | Data Intern | Boston, MA | Closed | Aug 09 |
`
	jobs := parseMarkdownTables(readme, "test/board")
	require.Len(t, jobs, 2)

	assert.Equal(t, "Acme Corp", jobs[0].Company)
	assert.Equal(t, "Software Engineer Intern", jobs[0].Title)
	assert.True(t, jobs[0].Remote)
	assert.Equal(t, models.ATSGreenhouse, jobs[0].ATSType)
	assert.Equal(t, models.JobNew, jobs[0].Status)
	require.NotNil(t, jobs[0].PostedDate)

	//continuation marker inherits the previous company
	assert.Equal(t, "Acme Corp", jobs[1].Company)
	assert.Equal(t, models.ATSLever, jobs[1].ATSType)
	assert.False(t, jobs[1].Remote)
}

func TestParseHTMLTables(t *testing.T) {
	readme := `
<table>
<tr><th>Company</th><th>Role</th><th>Location</th><th>Link</th></tr>
<tr><td>Initech</td><td>New Grad SWE</td><td>Seattle, WA</td><td><a href="https://jobs.ashbyhq.com/initech/789">Apply</a></td></tr>
<tr><td>Vandelay</td><td>Importer</td><td>NYC</td></tr>
</table>
`
	jobs := parseHTMLTables(readme, "test/board")
	require.Len(t, jobs, 1)
	assert.Equal(t, "Initech", jobs[0].Company)
	assert.Equal(t, "New Grad SWE", jobs[0].Title)
	assert.Equal(t, models.ATSAshby, jobs[0].ATSType)
	assert.Equal(t, "https://jobs.ashbyhq.com/initech/789", jobs[0].URL)
}

func TestRowToJobSkipsHeaderRows(t *testing.T) {
	last := ""
	_, ok := rowToJob([]string{"Company", "Role", "Location"}, "https://example.com", "src", &last)
	assert.False(t, ok)
}

func TestParsePostedDate(t *testing.T) {
	date := parsePostedDate("Aug 20")
	require.NotNil(t, date)
	assert.Equal(t, 20, date.Day())

	assert.Nil(t, parsePostedDate("not a date"))
	assert.Nil(t, parsePostedDate(""))
}
