// Package query turns list parameters into a typed Filter and evaluates it
// either as SQL or in memory. Both forms must select the same records.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/crucial707/asset-tracker/internal/apperr"
	"github.com/crucial707/asset-tracker/internal/models"
	"github.com/crucial707/asset-tracker/internal/pagination"
)

// Filter narrows an asset list. Zero-valued fields impose no constraint.
type Filter struct {
	// Search is a literal, case-insensitive substring of name or asset tag.
	Search   string
	Status   models.Status
	Category string
}

// Parse reads search, status, category, page and limit from a query string.
// Page and limit are coerced loosely. An unknown status, or a search or
// category that is not valid UTF-8 text, is an error. Search is taken
// verbatim, surrounding spaces included.
func Parse(v url.Values) (Filter, pagination.Params, error) {
	f := Filter{
		Search:   v.Get("search"),
		Category: strings.TrimSpace(v.Get("category")),
	}
	for name, s := range map[string]string{"search": f.Search, "category": f.Category} {
		if !validText(s) {
			return Filter{}, pagination.Params{}, apperr.Invalid(name, "must be valid UTF-8 text")
		}
	}
	if s := strings.TrimSpace(v.Get("status")); s != "" {
		st, err := models.ParseStatus(s)
		if err != nil {
			return Filter{}, pagination.Params{}, apperr.Invalid("status", "must be one of: available assigned maintenance retired")
		}
		f.Status = st
	}
	return f, Page(v), nil
}

// Page reads page and limit from a query string and normalises them.
func Page(v url.Values) pagination.Params {
	p := pagination.Params{
		Page:  looseInt(v.Get("page")),
		Limit: looseInt(v.Get("limit")),
	}
	return p.Normalize()
}

// validText rejects what Postgres refuses to bind as text.
func validText(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

// looseInt returns 0 (meaning "use the default") for anything unparsable.
func looseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Empty reports whether f matches every asset.
func (f Filter) Empty() bool {
	return f.Search == "" && f.Status == "" && f.Category == ""
}

// Where renders f as a SQL WHERE clause over the "assets a" alias, numbering
// placeholders from first. It returns an empty clause when f is empty.
func (f Filter) Where(first int) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", first+len(args)-1)
	}
	if f.Search != "" {
		p := next("%" + EscapeLike(f.Search) + "%")
		conds = append(conds, fmt.Sprintf(`(a.name ILIKE %s ESCAPE '\' OR a.asset_tag ILIKE %s ESCAPE '\')`, p, p))
	}
	if f.Status != "" {
		conds = append(conds, "a.status = "+next(string(f.Status)))
	}
	if f.Category != "" {
		conds = append(conds, "a.category = "+next(f.Category))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// Match evaluates f against a single asset.
func (f Filter) Match(a models.Asset) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(a.Name), needle) {
		return true
	}
	return a.AssetTag != nil && strings.Contains(strings.ToLower(*a.AssetTag), needle)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike neutralises LIKE wildcards so s matches only itself. Regex
// metacharacters need no treatment because LIKE does not interpret them.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
