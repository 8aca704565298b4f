package i18n

import (
	"fmt"
	"strings"
)

// Translator retrieves localized messages for error codes. data provides
// optional metadata to embed in the message (for example "expected" or
// "min").
type Translator interface {
	Message(code string, data map[string]any) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]any) string {
	switch t.lang {
	case "ja":
		switch code {
		case "modelity.PARSE_ERROR":
			return "値を解析できません"
		case "modelity.INVALID_TYPE":
			return "型が不正です"
		case "modelity.INVALID_VALUE":
			return "値が不正です"
		case "modelity.INVALID_ENUM_VALUE":
			return "許可されていない列挙値です"
		case "modelity.INVALID_TUPLE_LENGTH":
			return "タプルの長さが不正です"
		case "modelity.UNION_PARSE_ERROR":
			return "どのユニオン型にも一致しません"
		case "modelity.REQUIRED_MISSING":
			return "このフィールドは必須です"
		case "modelity.NIL_NOT_ALLOWED":
			return "nil は許可されていません"
		case "modelity.CONSTRAINT_FAILED":
			return "制約に違反しています"
		case "modelity.DECODE_ERROR":
			return "デコードに失敗しました"
		}
	default: // "en"
		switch code {
		case "modelity.PARSE_ERROR":
			if target, ok := data["target"].(string); ok {
				return fmt.Sprintf("could not parse value as %s", target)
			}
			return "could not parse value"
		case "modelity.INVALID_TYPE":
			if exp, ok := data["expected"].([]string); ok && len(exp) > 0 {
				return fmt.Sprintf("invalid type; expected %s", strings.Join(exp, " | "))
			}
			return "invalid type"
		case "modelity.INVALID_VALUE":
			return "invalid value"
		case "modelity.INVALID_ENUM_VALUE":
			return "value is not a valid enum member"
		case "modelity.INVALID_TUPLE_LENGTH":
			if n, ok := data["expected"].(int); ok {
				return fmt.Sprintf("invalid tuple length; expected %d elements", n)
			}
			return "invalid tuple length"
		case "modelity.UNION_PARSE_ERROR":
			if types, ok := data["types"].([]string); ok && len(types) > 0 {
				return fmt.Sprintf("value does not match any union member: %s", strings.Join(types, " | "))
			}
			return "value does not match any union member"
		case "modelity.REQUIRED_MISSING":
			return "this field is required"
		case "modelity.NIL_NOT_ALLOWED":
			return "nil is not allowed for this field"
		case "modelity.CONSTRAINT_FAILED":
			if name, ok := data["constraint"].(string); ok {
				return fmt.Sprintf("constraint %q failed", name)
			}
			return "constraint failed"
		case "modelity.DECODE_ERROR":
			return "decode failed"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]any) string { return currentTranslator.Message(code, data) }
