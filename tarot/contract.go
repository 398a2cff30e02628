package tarot

import "fmt"

// Contract is one of the three bid levels of a donne. Each level carries
// the multiplier applied to the donne's base value.
type Contract int

const (
	ContractUnknown Contract = iota
	Garde
	GardeSans
	GardeContre
)

func (c Contract) Coefficient() int {
	switch c {
	case Garde:
		return 2
	case GardeSans:
		return 4
	case GardeContre:
		return 6
	}
	return 0
}

func (c Contract) String() string {
	switch c {
	case Garde:
		return "G"
	case GardeSans:
		return "GS"
	case GardeContre:
		return "GC"
	}
	return ""
}

func ParseContract(s string) (Contract, error) {
	switch s {
	case "G":
		return Garde, nil
	case "GS":
		return GardeSans, nil
	case "GC":
		return GardeContre, nil
	}
	return ContractUnknown, fmt.Errorf("unrecognized contract %q", s)
}

// Poignee is the optional announcement of holding many trumps,
// worth a flat bonus.
type Poignee int

const (
	PoigneeNone Poignee = iota
	PoigneeSimple
	PoigneeDouble
	PoigneeTriple
)

func (p Poignee) Bonus() int {
	switch p {
	case PoigneeSimple:
		return 20
	case PoigneeDouble:
		return 30
	case PoigneeTriple:
		return 40
	}
	return 0
}

func (p Poignee) String() string {
	switch p {
	case PoigneeSimple:
		return "simple"
	case PoigneeDouble:
		return "double"
	case PoigneeTriple:
		return "triple"
	}
	return ""
}

func ParsePoignee(s string) (Poignee, error) {
	switch s {
	case "":
		return PoigneeNone, nil
	case "simple":
		return PoigneeSimple, nil
	case "double":
		return PoigneeDouble, nil
	case "triple":
		return PoigneeTriple, nil
	}
	return PoigneeNone, fmt.Errorf("unrecognized poignee %q", s)
}

// Petit records whether the smallest trump was won or lost at the
// last trick.
type Petit int

const (
	PetitNone Petit = iota
	PetitGagne
	PetitPerdu
)

func (p Petit) String() string {
	switch p {
	case PetitGagne:
		return "won"
	case PetitPerdu:
		return "lost"
	}
	return ""
}

func ParsePetit(s string) (Petit, error) {
	switch s {
	case "":
		return PetitNone, nil
	case "won":
		return PetitGagne, nil
	case "lost":
		return PetitPerdu, nil
	}
	return PetitNone, fmt.Errorf("unrecognized petit au bout %q", s)
}

// GrandChelem is the outcome of a grand slam. Succeeding without having
// announced it pays more than succeeding after an announcement.
type GrandChelem int

const (
	GrandChelemNone GrandChelem = iota
	GrandChelemReussi
	GrandChelemSansAnnonce
	GrandChelemRate
)

func (g GrandChelem) Bonus() int {
	switch g {
	case GrandChelemReussi:
		return 200
	case GrandChelemSansAnnonce:
		return 400
	case GrandChelemRate:
		return -200
	}
	return 0
}

func (g GrandChelem) String() string {
	switch g {
	case GrandChelemReussi:
		return "success"
	case GrandChelemSansAnnonce:
		return "success_no_announce"
	case GrandChelemRate:
		return "failed"
	}
	return ""
}

func ParseGrandChelem(s string) (GrandChelem, error) {
	switch s {
	case "":
		return GrandChelemNone, nil
	case "success":
		return GrandChelemReussi, nil
	case "success_no_announce":
		return GrandChelemSansAnnonce, nil
	case "failed":
		return GrandChelemRate, nil
	}
	return GrandChelemNone, fmt.Errorf("unrecognized grand chelem %q", s)
}
