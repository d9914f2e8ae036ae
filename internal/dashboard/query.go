package dashboard

import (
	"sort"
	"strings"

	"safeguide/internal/dataset"
)

// WeaponSexCount is one grouped bar: homicides for a (weapon, sex)
// pair under the current filter.
type WeaponSexCount struct {
	Weapon string `json:"weapon"`
	Sex    string `json:"sex"`
	Count  int    `json:"count"`
}

// ProvinceCantonCount is one grouped bar for the hazard chart.
type ProvinceCantonCount struct {
	Province string `json:"province"`
	Canton   string `json:"canton"`
	Count    int    `json:"count"`
}

// HomicidesByWeaponAndSex filters the homicide table to the selected
// province and death type and counts rows per (weapon, sex). Output is
// sorted by weapon then sex so repeated calls with an equal state are
// identical. An empty result is a valid chart with zero bars.
func HomicidesByWeaponAndSex(rows []dataset.Homicide, state FilterState) []WeaponSexCount {
	type key struct{ weapon, sex string }
	counts := map[key]int{}
	for _, r := range rows {
		if r.Province != state.Province {
			continue
		}
		if strings.TrimSpace(r.DeathType) != state.DeathType {
			continue
		}
		counts[key{r.Weapon, r.Sex}]++
	}

	out := make([]WeaponSexCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, WeaponSexCount{Weapon: k.weapon, Sex: k.sex, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weapon != out[j].Weapon {
			return out[i].Weapon < out[j].Weapon
		}
		return out[i].Sex < out[j].Sex
	})
	return out
}

// EventsByProvinceAndCanton counts hazard events of exactly the given
// type per (province, canton). The match is case-sensitive: the value
// comes from the dropdown, which is populated from the same column.
// An unknown event type yields an empty grouping, not an error.
func EventsByProvinceAndCanton(rows []dataset.HazardEvent, eventType string) []ProvinceCantonCount {
	type key struct{ province, canton string }
	counts := map[key]int{}
	for _, r := range rows {
		if r.EventType != eventType {
			continue
		}
		counts[key{r.Province, r.Canton}]++
	}

	out := make([]ProvinceCantonCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, ProvinceCantonCount{Province: k.province, Canton: k.canton, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Province != out[j].Province {
			return out[i].Province < out[j].Province
		}
		return out[i].Canton < out[j].Canton
	})
	return out
}
