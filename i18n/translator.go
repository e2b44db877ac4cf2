package i18n

import "sync"

// Translator retrieves localized messages for issue and status codes.
// data provides optional metadata to embed in the message (for example,
// "offset" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"ok":                               "ok",
		"coerced":                          "value coerced from a different JSON kind",
		"type_mismatch":                    "type mismatch",
		"null_value":                       "value is null",
		"not_found":                        "value not found",
		"pointer_missing_slash":            "pointer must start with '/'",
		"pointer_invalid_escape":           "pointer has an invalid '~' escape",
		"pointer_invalid_percent_encoding": "pointer has an invalid percent encoding",
		"pointer_unencoded_character":      "pointer fragment has a character that must be percent-encoded",
		"parse_error":                      "parse error",
		"empty_document":                   "document is empty",
		"duplicate_key":                    "duplicate key",
		"truncated":                        "truncated",
	},
	"ja": {
		"ok":                               "正常",
		"coerced":                          "別の JSON 型から変換されました",
		"type_mismatch":                    "型が一致しません",
		"null_value":                       "値が null です",
		"not_found":                        "値が見つかりません",
		"pointer_missing_slash":            "ポインタは '/' で始まる必要があります",
		"pointer_invalid_escape":           "ポインタの '~' エスケープが不正です",
		"pointer_invalid_percent_encoding": "ポインタのパーセントエンコードが不正です",
		"pointer_unencoded_character":      "ポインタにエンコードが必要な文字が含まれています",
		"parse_error":                      "解析エラー",
		"empty_document":                   "ドキュメントが空です",
		"duplicate_key":                    "キーが重複しています",
		"truncated":                        "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	if msg, ok := dictionaries[t.lang][code]; ok {
		return msg
	}
	return code
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
