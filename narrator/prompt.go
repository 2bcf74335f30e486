package narrator

import (
	"encoding/json"
	"fmt"

	"github.com/use-agent/carscope/models"
)

// systemPrompts establish the expert persona and the JSON reply contract,
// per response language.
var systemPrompts = map[string]string{
	models.LangEN: "You are a senior car evaluation expert with extensive knowledge of the automotive market and a reputation for providing comprehensive and reliable analyses. Your goal is to provide the user with an in-depth, well-reasoned, and holistic evaluation of whether a used car is worth buying. Your response must be in JSON format only and include 'evaluation', 'recommendation', and 'score' fields. Provide a thorough and comprehensive analysis of all car details, including pros, cons, market value considerations, common issues for the specific model/year, and how each parameter influences the overall assessment. Focus on delivering trustworthy insights that help the user make an informed decision, as if you have performed a 'deep check' and extensive reliable online research. Explain in detail and in clear language why the car is recommended or not recommended.",
	models.LangHE: "אתה מומחה בכיר להערכת רכבים, בעל ידע נרחב בשוק הרכב ומוניטין של מתן ניתוחים מקיפים ואמינים. המטרה שלך היא לספק למשתמש הערכה מעמיקה, מנומקת היטב, ומקיפה לגבי האם כדאי לרכוש רכב משומש. התשובה שלך חייבת להיות בפורמט JSON בלבד ולכלול את השדות evaluation, recommendation, ו-score. ספק ניתוח מעמיק ומקיף של כל פרטי הרכב, כולל יתרונות, חסרונות, והתייחסות לערך שוק, בעיות נפוצות לדגם/שנה, וכיצד כל פרמטר משפיע על ההערכה הכוללת. התמקד במתן מידע מהימן שיסייע למשתמש לקבל החלטה מושכלת, כאילו ביצעת 'בדיקה עמוקה' וחיפוש נרחב של מידע אמין באינטרנט. הסבר בפירוט ובשפה ברורה מדוע הרכב מומלץ או לא מומלץ.",
}

const userTemplateEN = `
Analyze the following car details and provide an in-depth evaluation:
%s

Carefully consider all provided parameters. Construct a detailed explanation that outlines specific pros and cons for this car, based on your expert experience and general knowledge about the car's model and year.

Return a JSON object with the following fields:
- "recommendation": A clear recommendation, one of "Good deal", "Not recommended", or "Neutral – depends"
- "evaluation": A highly detailed and comprehensive explanation for your recommendation. This should be a content-rich analysis elaborating on the reasons behind the score and recommendation, including pros, cons, important considerations for the buyer, and any relevant expert insights you can provide as if you've deeply investigated the car.
- "score": A numerical score from 0 to 100 that aligns with your recommendation and detailed analysis.
`

const userTemplateHE = `
נתח את פרטי הרכב הבאים ותן הערכה מעמיקה:
%s

שקול את כל הפרמטרים שניתנו בזהירות. בנה הסבר מפורט שמציין יתרונות וחסרונות ספציפיים לרכב זה, בהתבסס על ניסיונך כמומחה ועל ידע כללי לגבי דגם ו'שנתון' הרכב.

החזר אובייקט JSON עם השדות הבאים:
- "recommendation": המלצה ברורה אחת מבין "עסקה טובה", "לא מומלץ", או "תלוי בהעדפות"
- "evaluation": הסבר מפורט ומקיף ביותר להמלצתך. זה צריך להיות ניתוח עשיר בתוכן המפרט את הסיבות מאחורי הציון וההמלצה, כולל יתרונות, חסרונות, דגשים חשובים לקונה, וכל מידע רלוונטי שאתה כמומחה יכול לספק כאילו בדקת את הרכב לעומק.
- "score": ציון מספרי מ-0 עד 100 התואם את המלצתך והניתוח המפורט שלך.
`

// buildUserPrompt serializes the attributes and embeds them into the
// per-language instruction template.
func buildUserPrompt(attrs models.VehicleAttributes, lang string) string {
	serialized, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		// VehicleAttributes contains only marshalable fields; this path
		// exists to satisfy the compiler, not to be taken.
		serialized = []byte(fmt.Sprintf("%+v", attrs))
	}

	tmpl := userTemplateEN
	if models.NormalizeLang(lang) == models.LangHE {
		tmpl = userTemplateHE
	}
	return fmt.Sprintf(tmpl, serialized)
}

// systemPrompt returns the persona instruction for the given language.
func systemPrompt(lang string) string {
	return systemPrompts[models.NormalizeLang(lang)]
}
