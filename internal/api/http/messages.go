package httpapi

import (
	"golang.org/x/text/language"
)

type messageKey int

const (
	msgEmptyForm messageKey = iota
	msgInvalidCoordinates
	msgOutOfRange
	msgRejected
	msgUnknownCity
	msgFetchFailed
	msgInternal
)

var catalog = map[string]map[messageKey]string{
	"en": {
		msgEmptyForm:          "empty form",
		msgInvalidCoordinates: "invalid coordinate characters",
		msgOutOfRange:         "coordinates out of range",
		msgRejected:           "invalid coordinates",
		msgUnknownCity:        "unknown city",
		msgFetchFailed:        "failed to fetch weather forecast",
		msgInternal:           "internal server error",
	},
	"ru": {
		msgEmptyForm:          "Форма пустая. Выберите город или введите координаты",
		msgInvalidCoordinates: "Координаты содержат недопустимые символы",
		msgOutOfRange:         "Координаты вне допустимого диапазона",
		msgRejected:           "Неверные координаты",
		msgUnknownCity:        "Неизвестный город",
		msgFetchFailed:        "Не удалось получить прогноз погоды",
		msgInternal:           "Внутренняя ошибка сервера",
	},
}

// localizer picks a message language from the caller's preferences.
type localizer struct {
	matcher language.Matcher
}

// newLocalizer builds a localizer that falls back to def when nothing matches.
func newLocalizer(def string) localizer {
	tags := []language.Tag{language.English, language.Russian}
	if def == "ru" {
		tags = []language.Tag{language.Russian, language.English}
	}
	return localizer{matcher: language.NewMatcher(tags)}
}

// lang resolves the first usable language among prefs (explicit choice first,
// then Accept-Language) to a catalog key.
func (l localizer) lang(prefs ...string) string {
	tag, _ := language.MatchStrings(l.matcher, prefs...)
	base, _ := tag.Base()
	if _, ok := catalog[base.String()]; ok {
		return base.String()
	}
	return "en"
}

func (l localizer) message(lang string, key messageKey) string {
	if msg, ok := catalog[lang][key]; ok {
		return msg
	}
	return catalog["en"][key]
}
