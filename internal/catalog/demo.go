package catalog

import "github.com/DoyleJ11/lol-draft-advisor/internal/domain"

func rs(pick, ban, win float64, games int) domain.RoleStats {
	return domain.RoleStats{PickRate: pick, BanRate: ban, WinRate: win, SampleCount: games}
}

func champ(id int, name string, roles map[domain.Role]domain.RoleStats) domain.Champion {
	return domain.Champion{ID: id, Name: name, Roles: roles}
}

// DemoChampions is a small ladder snapshot used when no catalog database is
// configured.
func DemoChampions() []domain.Champion {
	const (
		top = domain.RoleTop
		jg  = domain.RoleJungle
		mid = domain.RoleMiddle
		bot = domain.RoleBottom
		sup = domain.RoleUtility
	)
	return []domain.Champion{
		champ(266, "Aatrox", map[domain.Role]domain.RoleStats{top: rs(0.082, 0.091, 0.497, 41210)}),
		champ(86, "Garen", map[domain.Role]domain.RoleStats{top: rs(0.061, 0.034, 0.515, 30544), mid: rs(0.004, 0.034, 0.489, 2031)}),
		champ(122, "Darius", map[domain.Role]domain.RoleStats{top: rs(0.055, 0.112, 0.503, 27690)}),
		champ(516, "Ornn", map[domain.Role]domain.RoleStats{top: rs(0.047, 0.012, 0.508, 23881)}),
		champ(126, "Jayce", map[domain.Role]domain.RoleStats{top: rs(0.039, 0.021, 0.481, 19722), mid: rs(0.018, 0.021, 0.476, 9103)}),
		champ(62, "Wukong", map[domain.Role]domain.RoleStats{top: rs(0.021, 0.018, 0.506, 10650), jg: rs(0.034, 0.018, 0.512, 17320)}),
		champ(64, "Lee Sin", map[domain.Role]domain.RoleStats{jg: rs(0.118, 0.087, 0.488, 59870)}),
		champ(254, "Vi", map[domain.Role]domain.RoleStats{jg: rs(0.072, 0.025, 0.511, 36448)}),
		champ(104, "Graves", map[domain.Role]domain.RoleStats{jg: rs(0.069, 0.043, 0.499, 35012)}),
		champ(113, "Sejuani", map[domain.Role]domain.RoleStats{jg: rs(0.041, 0.009, 0.517, 20734)}),
		champ(121, "Kha'Zix", map[domain.Role]domain.RoleStats{jg: rs(0.063, 0.057, 0.506, 31980)}),
		champ(103, "Ahri", map[domain.Role]domain.RoleStats{mid: rs(0.097, 0.048, 0.509, 49120)}),
		champ(61, "Orianna", map[domain.Role]domain.RoleStats{mid: rs(0.058, 0.011, 0.496, 29460)}),
		champ(134, "Syndra", map[domain.Role]domain.RoleStats{mid: rs(0.051, 0.029, 0.493, 25870)}),
		champ(157, "Yasuo", map[domain.Role]domain.RoleStats{mid: rs(0.074, 0.133, 0.492, 37520), top: rs(0.022, 0.133, 0.487, 11230), bot: rs(0.006, 0.133, 0.479, 3050)}),
		champ(99, "Lux", map[domain.Role]domain.RoleStats{sup: rs(0.066, 0.031, 0.502, 33400), mid: rs(0.019, 0.031, 0.498, 9610)}),
		champ(222, "Jinx", map[domain.Role]domain.RoleStats{bot: rs(0.128, 0.052, 0.514, 64990)}),
		champ(145, "Kai'Sa", map[domain.Role]domain.RoleStats{bot: rs(0.151, 0.044, 0.497, 76540)}),
		champ(81, "Ezreal", map[domain.Role]domain.RoleStats{bot: rs(0.139, 0.019, 0.488, 70410)}),
		champ(21, "Miss Fortune", map[domain.Role]domain.RoleStats{bot: rs(0.094, 0.027, 0.519, 47660)}),
		champ(498, "Xayah", map[domain.Role]domain.RoleStats{bot: rs(0.043, 0.015, 0.505, 21870)}),
		champ(412, "Thresh", map[domain.Role]domain.RoleStats{sup: rs(0.112, 0.038, 0.501, 56890)}),
		champ(89, "Leona", map[domain.Role]domain.RoleStats{sup: rs(0.079, 0.041, 0.513, 40030)}),
		champ(111, "Nautilus", map[domain.Role]domain.RoleStats{sup: rs(0.084, 0.067, 0.507, 42540)}),
		champ(117, "Lulu", map[domain.Role]domain.RoleStats{sup: rs(0.061, 0.054, 0.515, 30990)}),
		champ(497, "Rakan", map[domain.Role]domain.RoleStats{sup: rs(0.048, 0.008, 0.503, 24310)}),
	}
}

func pair(kind PairKind, a int, ra domain.Role, b int, rb domain.Role, win float64, games int) PairModel {
	return PairModel{Kind: kind, ChampionA: a, RoleA: string(ra), ChampionB: b, RoleB: string(rb), WinRate: win, SampleCount: games}
}

// DemoPairs holds a handful of well-known duos and matchups. Anything not
// listed reads as the prior.
func DemoPairs() []PairModel {
	const (
		top = domain.RoleTop
		jg  = domain.RoleJungle
		mid = domain.RoleMiddle
		bot = domain.RoleBottom
		sup = domain.RoleUtility
	)
	return []PairModel{
		pair(KindSynergy, 498, bot, 497, sup, 0.541, 3820),
		pair(KindSynergy, 21, bot, 89, sup, 0.528, 4410),
		pair(KindSynergy, 222, bot, 117, sup, 0.533, 5210),
		pair(KindSynergy, 145, bot, 111, sup, 0.519, 6870),
		pair(KindSynergy, 157, mid, 62, jg, 0.524, 1930),
		pair(KindSynergy, 61, mid, 113, jg, 0.526, 1460),
		pair(KindCounter, 86, top, 126, top, 0.541, 2210),
		pair(KindCounter, 122, top, 516, top, 0.468, 1980),
		pair(KindCounter, 266, top, 86, top, 0.472, 2650),
		pair(KindCounter, 103, mid, 157, mid, 0.532, 3140),
		pair(KindCounter, 134, mid, 103, mid, 0.487, 2470),
		pair(KindCounter, 64, jg, 254, jg, 0.479, 3680),
		pair(KindCounter, 222, bot, 81, bot, 0.523, 6120),
	}
}

// Demo builds the catalog from DemoChampions and DemoPairs.
func Demo() (*Catalog, error) {
	return Build(DemoChampions(), DemoPairs())
}
