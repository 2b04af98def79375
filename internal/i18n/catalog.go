package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFiles embed.FS

// FormFields are the user-supplied fields of the signup form, in display
// order.
var FormFields = []string{"name", "email", "phone_number", "how_heard"}

// ReferralOptions are the closed set of accepted how_heard values.
var ReferralOptions = []string{"instagram", "tiktok", "linkedin", "x", "word_of_mouth", "other"}

// RequiredKeys returns every dotted key the signup surface looks up. A
// catalog missing any of them is rejected at load time rather than falling
// back silently at render time.
func RequiredKeys() []string {
	keys := []string{
		"hero.waitlist.title",
		"hero.waitlist.description",
		"hero.waitlist.form.submit",
		"hero.waitlist.form.submitting",
		"hero.waitlist.toast.success.title",
		"hero.waitlist.toast.success.description",
		"hero.waitlist.toast.error.title",
		"hero.waitlist.toast.error.description",
	}

	for _, field := range FormFields {
		prefix := "hero.waitlist.form." + field
		keys = append(keys, prefix+".label", prefix+".placeholder", prefix+".error")
	}

	for _, option := range ReferralOptions {
		keys = append(keys, "hero.waitlist.form.how_heard.options."+option)
	}

	sort.Strings(keys)
	return keys
}

// Catalog holds every loaded locale and negotiates the best one for a
// request.
type Catalog struct {
	locales  map[string]map[string]string
	tags     []language.Tag
	matcher  language.Matcher
	fallback string
}

// Load parses the embedded locale files and verifies each catalog carries
// every required key.
func Load(fallback string) (*Catalog, error) {
	entries, err := fs.ReadDir(localeFiles, "locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locales dir: %w", err)
	}

	catalog := &Catalog{
		locales:  make(map[string]map[string]string),
		fallback: fallback,
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") {
			continue
		}

		locale := strings.TrimSuffix(name, ".yaml")

		raw, err := localeFiles.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", name, err)
		}

		var tree map[string]interface{}
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", name, err)
		}

		flat := make(map[string]string)
		flatten("", tree, flat)

		if err := verifyKeys(locale, flat); err != nil {
			return nil, err
		}

		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("i18n: locale name %q: %w", locale, err)
		}

		catalog.locales[locale] = flat
		catalog.tags = append(catalog.tags, tag)
	}

	if _, ok := catalog.locales[fallback]; !ok {
		return nil, fmt.Errorf("i18n: fallback locale %q not found", fallback)
	}

	// The fallback tag must sort first so the matcher prefers it for
	// unknown languages.
	sort.Slice(catalog.tags, func(i, j int) bool {
		if catalog.tags[i].String() == fallback {
			return true
		}
		if catalog.tags[j].String() == fallback {
			return false
		}
		return catalog.tags[i].String() < catalog.tags[j].String()
	})

	catalog.matcher = language.NewMatcher(catalog.tags)

	return catalog, nil
}

func flatten(prefix string, node map[string]interface{}, out map[string]string) {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}

		switch typed := value.(type) {
		case map[string]interface{}:
			flatten(full, typed, out)
		case string:
			out[full] = typed
		default:
			out[full] = fmt.Sprintf("%v", typed)
		}
	}
}

func verifyKeys(locale string, flat map[string]string) error {
	var missing []string
	for _, key := range RequiredKeys() {
		if _, ok := flat[key]; !ok {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("i18n: locale %q is missing keys: %s", locale, strings.Join(missing, ", "))
	}

	return nil
}

// Locales returns the loaded locale names.
func (c *Catalog) Locales() []string {
	names := make([]string, 0, len(c.locales))
	for name := range c.locales {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Localizer negotiates the best available locale for an Accept-Language
// header value. Unknown or empty values resolve to the fallback locale.
func (c *Catalog) Localizer(acceptLanguage string) *Localizer {
	locale := c.fallback

	if strings.TrimSpace(acceptLanguage) != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			tag, _, confidence := c.matcher.Match(tags...)
			if confidence > language.No {
				if base, conf := tag.Base(); conf > language.No {
					if _, ok := c.locales[base.String()]; ok {
						locale = base.String()
					}
				}
			}
		}
	}

	return &Localizer{
		locale:   locale,
		strings:  c.locales[locale],
		fallback: c.locales[c.fallback],
	}
}

// ForLocale returns the localizer for an exact locale name, falling back
// when the locale is not loaded.
func (c *Catalog) ForLocale(locale string) *Localizer {
	if _, ok := c.locales[locale]; !ok {
		locale = c.fallback
	}

	return &Localizer{
		locale:   locale,
		strings:  c.locales[locale],
		fallback: c.locales[c.fallback],
	}
}

// Localizer resolves dotted keys to display strings for one locale.
type Localizer struct {
	locale   string
	strings  map[string]string
	fallback map[string]string
}

// Locale returns the negotiated locale name.
func (l *Localizer) Locale() string {
	return l.locale
}

// Lookup resolves a dotted key, consulting the fallback locale before giving
// up and returning the key itself.
func (l *Localizer) Lookup(key string) string {
	if value, ok := l.strings[key]; ok {
		return value
	}

	if value, ok := l.fallback[key]; ok {
		return value
	}

	return key
}
