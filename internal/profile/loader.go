package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-apply-agent/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates the candidate profile. Missing required fields
// are reported together so one run surfaces every gap.
func Load(path string) (*models.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	if err := validate.Struct(&p); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			var missing []string
			for _, fe := range invalid {
				missing = append(missing, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return nil, fmt.Errorf("profile %s is incomplete: %s", path, strings.Join(missing, ", "))
		}
		return nil, fmt.Errorf("failed to validate profile: %w", err)
	}

	log.Printf("✅ Loaded profile for %s", p.FullName())
	return &p, nil
}
