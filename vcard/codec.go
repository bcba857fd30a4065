// ABOUTME: vCard 3.0 encoder and decoder for contacts
// ABOUTME: Encodes one contact per card and decodes multi-card blobs into partial contacts
package vcard

import (
	"regexp"
	"strings"

	"github.com/harperreed/donorbase/models"
)

const crlf = "\r\n"

var beginCard = regexp.MustCompile(`(?i)BEGIN:VCARD`)

// Encode renders a contact as a single vCard 3.0 card. Lines with empty values are left
// out and N is omitted for organization records.
func Encode(c *models.Contact) string {
	lines := []string{"BEGIN:VCARD", "VERSION:3.0"}

	add := func(prop, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, prop+":"+value)
		}
	}

	add("FN", escapeText(c.FullName()))
	if !c.IsOrganization() && (c.FirstName != "" || c.LastName != "") {
		lines = append(lines, "N:"+escapeText(c.LastName)+";"+escapeText(c.FirstName)+";;;")
	}
	add("ORG", escapeText(c.Organization))
	add("TITLE", escapeText(c.Title))
	add("EMAIL", c.Email)
	add("TEL;TYPE=WORK", c.Phone)
	add("TEL;TYPE=CELL", c.Mobile)
	add("URL", c.Website)
	add("NOTE", escapeText(c.Notes))

	lines = append(lines, "END:VCARD")
	return strings.Join(lines, crlf)
}

// EncodeAll renders every contact and separates the cards with a blank line.
func EncodeAll(contacts []models.Contact) string {
	cards := make([]string, len(contacts))
	for i := range contacts {
		cards[i] = Encode(&contacts[i])
	}
	return strings.Join(cards, crlf+crlf)
}

// Decode parses every card in text. The returned contacts are partial: they carry no id
// and no defaults. Cards without a first name or an organization are dropped.
func Decode(text string) []models.Contact {
	var contacts []models.Contact
	for _, block := range beginCard.Split(text, -1) {
		if strings.TrimSpace(block) == "" {
			continue
		}
		c, ok := decodeCard(block)
		if ok {
			contacts = append(contacts, c)
		}
	}
	return contacts
}

func decodeCard(block string) (models.Contact, bool) {
	var (
		c          models.Contact
		familyName string
		givenName  string
		sawFN      bool
	)

	for _, line := range unfold(block) {
		name, params, value, ok := parseLine(line)
		if !ok {
			continue
		}

		switch name {
		case "FN":
			full := strings.TrimSpace(unescapeText(value))
			if full == "" {
				continue
			}
			sawFN = true
			first, rest, _ := strings.Cut(full, " ")
			c.FirstName = first
			c.LastName = rest
		case "N":
			parts := splitComponents(value)
			if len(parts) > 0 {
				familyName = parts[0]
			}
			if len(parts) > 1 {
				givenName = parts[1]
			}
		case "ORG":
			if parts := splitComponents(value); len(parts) > 0 {
				c.Organization = strings.TrimSpace(parts[0])
			}
		case "TITLE":
			c.Title = strings.TrimSpace(unescapeText(value))
		case "EMAIL":
			if c.Email == "" {
				c.Email = strings.TrimSpace(value)
			}
		case "URL":
			c.Website = strings.TrimSpace(value)
		case "NOTE":
			c.Notes = unescapeText(value)
		case "TEL":
			assignPhone(&c, telTypes(params), strings.TrimSpace(value))
		}
	}

	// A non-empty FN is authoritative; N only fills in for cards without one.
	if !sawFN {
		c.FirstName = strings.TrimSpace(givenName)
		c.LastName = strings.TrimSpace(familyName)
	}

	if strings.TrimSpace(c.FirstName) == "" && strings.TrimSpace(c.Organization) == "" {
		return models.Contact{}, false
	}
	return c, true
}

// assignPhone routes a TEL value. CELL goes to mobile, any other explicit type to phone,
// and untyped numbers fill phone first and mobile second.
func assignPhone(c *models.Contact, types []string, number string) {
	if number == "" {
		return
	}

	isCell := false
	for _, t := range types {
		if t == "CELL" {
			isCell = true
		}
	}

	switch {
	case isCell && c.Mobile == "":
		c.Mobile = number
	case !isCell && len(types) > 0 && c.Phone == "":
		c.Phone = number
	case c.Phone == "":
		c.Phone = number
	case c.Mobile == "":
		c.Mobile = number
	}
}

// unfold splits a card into logical lines, joining RFC 2425 continuation lines.
func unfold(block string) []string {
	raw := strings.Split(strings.ReplaceAll(block, crlf, "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if (strings.HasPrefix(l, " ") || strings.HasPrefix(l, "\t")) && len(lines) > 0 {
			lines[len(lines)-1] += l[1:]
			continue
		}
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// parseLine splits "group.NAME;PARAM=A;PARAM=B:value" into its parts. The property name is
// upper-cased and any group prefix is dropped.
func parseLine(line string) (name string, params []string, value string, ok bool) {
	head, value, found := strings.Cut(line, ":")
	if !found {
		return "", nil, "", false
	}

	fields := strings.Split(head, ";")
	name = strings.ToUpper(strings.TrimSpace(fields[0]))
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name, fields[1:], value, true
}

// telTypes collects upper-cased TYPE values, including vCard 2.1 bare parameters.
func telTypes(params []string) []string {
	var types []string
	for _, p := range params {
		key, val, hasValue := strings.Cut(p, "=")
		if !hasValue {
			types = append(types, strings.ToUpper(strings.TrimSpace(key)))
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(key), "TYPE") {
			continue
		}
		for _, t := range strings.Split(strings.Trim(val, `"`), ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, strings.ToUpper(t))
			}
		}
	}
	return types
}

// splitComponents splits a structured value on unescaped semicolons and unescapes each part.
func splitComponents(value string) []string {
	var (
		parts   []string
		current strings.Builder
		escaped bool
	)
	for _, r := range value {
		switch {
		case escaped:
			current.WriteRune('\\')
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ';':
			parts = append(parts, unescapeText(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if escaped {
		current.WriteRune('\\')
	}
	return append(parts, unescapeText(current.String()))
}

var textEscaper = strings.NewReplacer(`\`, `\\`, "\r\n", `\n`, "\n", `\n`, ",", `\,`, ";", `\;`)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func unescapeText(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var out strings.Builder
	escaped := false
	for _, r := range s {
		if !escaped {
			if r == '\\' {
				escaped = true
			} else {
				out.WriteRune(r)
			}
			continue
		}
		switch r {
		case 'n', 'N':
			out.WriteRune('\n')
		default:
			out.WriteRune(r)
		}
		escaped = false
	}
	if escaped {
		out.WriteRune('\\')
	}
	return out.String()
}
