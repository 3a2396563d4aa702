package risk

import (
	"fmt"
	"math"

	"github.com/genehive/genehive/pkg/pedigree"
)

// Parental risk constants. These encode the simplified inheritance model:
// only direct parents contribute, and heterozygous/homozygous states are
// collapsed into per-pattern lookup values.
const (
	dominantOneParent   = 0.5
	dominantBothParents = 0.75

	recessiveOneParent   = 0.5
	recessiveBothParents = 1.0

	xLinkedAffectedMother = 0.5
	xLinkedFemaleOne      = 0.25
	xLinkedFemaleBoth     = 0.5

	multifactorialBase   = 0.05
	multifactorialFactor = 2.5
	multifactorialCap    = 0.8
)

// recessiveCarrierRisk is the background chance that an unaffected couple
// still produces an affected child, assuming a 1% homozygote frequency:
// sqrt(0.01) carrier probability times the 1/4 recessive cross.
var recessiveCarrierRisk = math.Sqrt(0.01) * 0.25

// parentalRisk applies the inheritance-pattern rule for one person and
// disease. parents holds the resolved parents only (0-2); unresolved
// references were already skipped by the graph accessor. It returns the
// parental probability and the human-readable pattern label.
func parentalRisk(d pedigree.Disease, subject *pedigree.Person, parents []*pedigree.Person) (float64, string) {
	affected := 0
	motherAffected := false
	for _, parent := range parents {
		if parent.IsAffected(d.ID) {
			affected++
			if parent.Sex == pedigree.Female {
				motherAffected = true
			}
		}
	}

	switch d.Inheritance {
	case pedigree.Dominant:
		switch affected {
		case 0:
			return 0, "autosomal dominant (no affected parents)"
		case 1:
			return dominantOneParent, "autosomal dominant (one parent)"
		default:
			return dominantBothParents, "autosomal dominant (both parents)"
		}

	case pedigree.Recessive:
		switch affected {
		case 0:
			return recessiveCarrierRisk, "autosomal recessive (carrier frequency)"
		case 1:
			return recessiveOneParent, "autosomal recessive (one parent)"
		default:
			return recessiveBothParents, "autosomal recessive (both parents)"
		}

	case pedigree.XLinked:
		if subject.Sex == pedigree.Male {
			// Sons inherit their X from the mother; the father's status
			// cannot raise a son's risk in this model.
			if motherAffected {
				return xLinkedAffectedMother, "x-linked (affected mother, male child)"
			}
			return 0, "x-linked (male child)"
		}
		switch affected {
		case 0:
			return 0, "x-linked (female child)"
		case 1:
			return xLinkedFemaleOne, "x-linked (one parent, female child)"
		default:
			return xLinkedFemaleBoth, "x-linked (both parents, female child)"
		}

	case pedigree.Multifactorial:
		p := multifactorialBase * math.Pow(multifactorialFactor, float64(affected))
		return math.Min(p, multifactorialCap), fmt.Sprintf("multifactorial (%d affected parents)", affected)
	}

	// Unknown inheritance type: no parental signal, base rate only.
	return 0, string(d.Inheritance)
}
