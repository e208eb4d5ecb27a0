package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yukikurage/workstream-api/internal/models"
)

func TestDefault(t *testing.T) {
	d, err := Default(WithHashCost(bcrypt.MinCost))
	require.NoError(t, err)

	people := d.People()
	require.Len(t, people, 6)
	assert.Equal(t, "S1", people[0].ID)
	assert.Equal(t, "Aniket Baral", people[0].Name)
	assert.Equal(t, "S Harsha", people[5].Name)

	admin, ok := d.FindByUsername(" ADMIN ")
	require.True(t, ok)
	assert.True(t, admin.IsManager())
	assert.Equal(t, "Alex Rivera", admin.Name)
	assert.Empty(t, admin.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin")))

	harsha, ok := d.FindByUsername("s")
	require.True(t, ok)
	assert.Equal(t, "S6", harsha.ID)
	assert.False(t, harsha.IsManager())

	acc, ok := d.Account("S3")
	require.True(t, ok)
	assert.Equal(t, "tanishka", acc.Username)

	_, ok = d.Account("nope")
	assert.False(t, ok)
}

func TestFromYAML(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	doc := `
accounts:
  - id: M9
    name: Dana Lee
    role: MANAGER
    username: dana
    access: manager
    password_hash: "` + string(hash) + `"
  - id: E1
    name: Priya Nair
    role: QA
    username: Priya
    password: priya
`
	d, err := FromYAML([]byte(doc), WithHashCost(bcrypt.MinCost))
	require.NoError(t, err)

	people := d.People()
	require.Len(t, people, 1)
	assert.Equal(t, "Priya Nair", people[0].Name)
	assert.Equal(t, "QA", people[0].Role)

	priya, ok := d.FindByUsername("priya")
	require.True(t, ok)
	assert.Equal(t, AccessEmployee, priya.Access)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(priya.PasswordHash), []byte("priya")))

	dana, ok := d.FindByUsername("dana")
	require.True(t, ok)
	assert.Equal(t, string(hash), dana.PasswordHash)
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name     string
		accounts []Account
		wantErr  error
	}{
		{
			name: "duplicate id",
			accounts: []Account{
				{Person: models.Person{ID: "E1"}, Username: "a", Password: "a"},
				{Person: models.Person{ID: "E1"}, Username: "b", Password: "b"},
			},
			wantErr: ErrDuplicateAccount,
		},
		{
			name:     "missing password",
			accounts: []Account{{Username: "a"}},
			wantErr:  ErrMissingPassword,
		},
		{
			name:     "bad access",
			accounts: []Account{{Username: "a", Password: "a", Access: "root"}},
			wantErr:  ErrInvalidAccess,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.accounts, WithHashCost(bcrypt.MinCost))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directory.yaml")
	require.NoError(t, os.WriteFile(path, []byte("accounts:\n  - id: E1\n    name: Kai\n    username: kai\n    password: kai\n"), 0o600))

	d, err := Load(path, WithHashCost(bcrypt.MinCost))
	require.NoError(t, err)
	assert.Len(t, d.People(), 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
