package validators

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var defaultRegions = []string{"RU", "US"}

// PhoneNormalizer converte para E.164 tentando as regiões na ordem.
type PhoneNormalizer struct {
	regions []string
}

func NewPhoneNormalizer(regions []string) *PhoneNormalizer {
	if len(regions) == 0 {
		regions = defaultRegions
	}
	up := make([]string, 0, len(regions))
	for _, r := range regions {
		up = append(up, strings.ToUpper(strings.TrimSpace(r)))
	}
	return &PhoneNormalizer{regions: up}
}

// Normalize devolve "" quando nenhuma região consegue interpretar o número.
func (n *PhoneNormalizer) Normalize(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	for _, region := range n.regions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		return phonenumbers.Format(parsed, phonenumbers.E164)
	}
	return ""
}
