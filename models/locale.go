package models

// Supported response languages.
const (
	LangEN = "en"
	LangHE = "he"
)

// NormalizeLang maps an arbitrary language tag to a supported one.
func NormalizeLang(lang string) string {
	if lang == LangHE {
		return LangHE
	}
	return LangEN
}

// messages maps error code → language → fixed user-facing text.
// Recovery advice deliberately points at manual entry: the service never
// retries a failed scrape on its own.
var messages = map[string]map[string]string{
	ErrCodeInvalidInput: {
		LangEN: "Either yad2Url or carData must be provided",
		LangHE: "נדרש קישור יד2 או פרטי רכב",
	},
	ErrCodeInvalidCarData: {
		LangEN: "carData must include title, year, mileage and price",
		LangHE: "פרטי הרכב חייבים לכלול כותרת, שנה, קילומטראז' ומחיר",
	},
	ErrCodeChallenge: {
		LangEN: "CAPTCHA detected. Please try again later or use manual input.",
		LangHE: "זוהה דף אימות. נסו שוב מאוחר יותר או השתמשו בהזנה ידנית.",
	},
	ErrCodeFieldsMissing: {
		LangEN: "Failed to extract required car details. Please try using manual input instead.",
		LangHE: "לא הצלחנו לחלץ את פרטי הרכב הנדרשים. נסו להשתמש בהזנה ידנית.",
	},
	ErrCodeScrapeFailed: {
		LangEN: "Failed to scrape car data from Yad2. Please try using manual input instead.",
		LangHE: "שליפת נתוני הרכב מיד2 נכשלה. נסו להשתמש בהזנה ידנית.",
	},
	ErrCodeScrapeTimeout: {
		LangEN: "The listing page took too long to load. Please try again or use manual input.",
		LangHE: "טעינת דף המודעה ארכה זמן רב מדי. נסו שוב או השתמשו בהזנה ידנית.",
	},
	ErrCodeNarration: {
		LangEN: "Failed to evaluate car data",
		LangHE: "שגיאה בהערכת הרכב",
	},
	ErrCodeInternal: {
		LangEN: "Failed to process car evaluation",
		LangHE: "אירעה שגיאה בעיבוד הערכת הרכב",
	},
}

// Message returns the fixed user-facing text for an error code in the
// given language, falling back to English and then to the code itself.
func Message(code, lang string) string {
	byLang, ok := messages[code]
	if !ok {
		return code
	}
	if msg, ok := byLang[NormalizeLang(lang)]; ok {
		return msg
	}
	return byLang[LangEN]
}

// recommendationDisplay maps canonical recommendation labels to their
// display strings per language. Pure data; unknown labels pass through.
var recommendationDisplay = map[string]map[string]string{
	LangEN: {
		RecommendGoodDeal:       RecommendGoodDeal,
		RecommendNotRecommended: RecommendNotRecommended,
		RecommendNeutral:        RecommendNeutral,
	},
	LangHE: {
		RecommendGoodDeal:       "עסקה טובה",
		RecommendNotRecommended: "לא מומלץ",
		RecommendNeutral:        "תלוי בהעדפות",
	},
}

// DisplayRecommendation localizes a canonical recommendation label.
// Labels outside the closed set are returned unchanged.
func DisplayRecommendation(label, lang string) string {
	if display, ok := recommendationDisplay[NormalizeLang(lang)][label]; ok {
		return display
	}
	return label
}
