package auth

import (
	"context"
	"strconv"
	"strings"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/pkg/slug"
)

const (
	usernameMaxLen      = 150
	minPasswordLen      = 8
	maxPasswordBytes    = 72
	maxUsernameAttempts = 5
	fallbackUsername    = "user"
)

// usernameGenerator produce candidatos de username: uno solo si fue explícito,
// o base, base-2, base-3... si se deriva del nombre o del email.
type usernameGenerator struct {
	base     string
	explicit bool
	n        int
}

func newUsernameGenerator(username, name, email string) (*usernameGenerator, error) {
	if strings.TrimSpace(username) != "" {
		base := slug.Truncate(slug.Make(username), usernameMaxLen)
		if base == "" {
			return nil, domain.NewValidationError("username", domain.CodeInvalid,
				"solo se permiten letras, números, guiones y guiones bajos")
		}
		return &usernameGenerator{base: base, explicit: true}, nil
	}
	base := slug.Make(name)
	if base == "" {
		local, _, _ := strings.Cut(email, "@")
		base = slug.Make(local)
	}
	if base == "" {
		base = fallbackUsername
	}
	return &usernameGenerator{base: slug.Truncate(base, usernameMaxLen)}, nil
}

// next devuelve el siguiente candidato libre. Para derivados consulta el repositorio
// y salta los ocupados; la unicidad definitiva la garantiza el índice al insertar.
func (g *usernameGenerator) next(ctx context.Context, repo repository.UserRepository) (string, error) {
	if g.explicit {
		if g.n > 0 {
			return "", usernameTaken()
		}
		g.n++
		return g.base, nil
	}
	for {
		g.n++
		candidate := withSuffix(g.base, g.n)
		taken, err := repo.ExistsUsername(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

// withSuffix agrega -n (n >= 2) recortando la base para no superar el máximo.
func withSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	suffix := "-" + strconv.Itoa(n)
	return slug.Truncate(base, usernameMaxLen-len(suffix)) + suffix
}
