// Package script renders per-language spoken message templates for abandoned
// cart reminders. Templates are transliterated so the speech provider reads
// them naturally; "Wapas dot A I" is spelled out for correct pronunciation.
package script

import (
	"fmt"

	"github.com/wapas/voicerelay/internal/language"
)

// Generate renders the voice script for the given customer name and language.
// Languages without a registered template fall back to the default language.
func Generate(name string, code language.Code) string {
	switch code {
	case language.English:
		return fmt.Sprintf(
			"Hi %s, your cart on Wapas dot A I is waiting for you. Please complete your order before items go out of stock.",
			name,
		)
	case language.Telugu:
		return fmt.Sprintf(
			"Namaskaram %s, mee cart Wapas dot A I lo wait chestundi. Dayachesi mee order complete cheyandi.",
			name,
		)
	case language.Hindi:
		return fmt.Sprintf(
			"Namaste %s, aapka cart Wapas dot A I par wait kar raha hai. Kripaya apna order complete karein.",
			name,
		)
	case language.Tamil:
		return fmt.Sprintf(
			"Vanakkam %s, ungal cart Wapas dot A I il kaathirukkipadhu. Thayavu seithu ungal order complete pannungal.",
			name,
		)
	case language.Kannada:
		return fmt.Sprintf(
			"Namaskara %s, nimma cart Wapas dot A I nalli kaayuttide. Dayavittu nimma order complete maadi.",
			name,
		)
	case language.Malayalam:
		return fmt.Sprintf(
			"Namaskkaram %s, ningalude cart Wapas dot A I yil kaathirikkunnu. Dayavayi ningalude order complete cheyyuka.",
			name,
		)
	case language.Marathi:
		return fmt.Sprintf(
			"Namaskar %s, tumcha cart Wapas dot A I var vaat pahat aahe. Krupaya tumcha order complete kara.",
			name,
		)
	case language.Gujarati:
		return fmt.Sprintf(
			"Namaskar %s, tamaru cart Wapas dot A I par rani joi che. Krupaya tamaru order complete karo.",
			name,
		)
	case language.Bengali:
		return fmt.Sprintf(
			"Namaskar %s, apnar cart Wapas dot A I te opekha korche. Doya kore apnar order complete korun.",
			name,
		)
	case language.Punjabi:
		return fmt.Sprintf(
			"Sat Sri Akal %s, tuhadda cart Wapas dot A I te udeek kar reha hai. Kirpa karke apna order complete karo.",
			name,
		)
	case language.Odia:
		return fmt.Sprintf(
			"Namaskar %s, apananka cart Wapas dot A I re apeksha karuachi. Dayakari apananka order sampurna karantu.",
			name,
		)
	default:
		return Generate(name, language.DefaultCode)
	}
}
