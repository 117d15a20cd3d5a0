// Package i18n translates user-facing error messages. The language is taken
// from the Accept-Language header, with English as fallback.
package i18n

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	MsgBadRequest      = "invalid request"
	MsgInvalidBody     = "invalid request body"
	MsgInvalidID       = "invalid identifier"
	MsgUnauthorized    = "authentication required"
	MsgNoRoles         = "no role information"
	MsgForbidden       = "you do not have permission to perform this action"
	MsgNotFound        = "resource not found"
	MsgAlreadyExists   = "already exists"
	MsgInternal        = "internal server error"
	MsgInvalidStatus   = "invalid status"
	MsgInvalidProgress = "progress must be between 0 and 100"
	MsgMissingField    = "required field missing: %s"
	MsgUnavailable     = "database unavailable"
)

var supported = []language.Tag{language.English, language.Korean}

var matcher = language.NewMatcher(supported)

var cat = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	ko := map[string]string{
		MsgBadRequest:      "잘못된 요청입니다",
		MsgInvalidBody:     "요청 본문이 올바르지 않습니다",
		MsgInvalidID:       "식별자가 올바르지 않습니다",
		MsgUnauthorized:    "인증이 필요합니다",
		MsgNoRoles:         "역할 정보가 없습니다",
		MsgForbidden:       "이 작업을 수행할 권한이 없습니다",
		MsgNotFound:        "리소스를 찾을 수 없습니다",
		MsgAlreadyExists:   "이미 존재합니다",
		MsgInternal:        "서버 내부 오류가 발생했습니다",
		MsgInvalidStatus:   "상태 값이 올바르지 않습니다",
		MsgInvalidProgress: "진행률은 0에서 100 사이여야 합니다",
		MsgMissingField:    "필수 항목이 누락되었습니다: %s",
		MsgUnavailable:     "데이터베이스를 사용할 수 없습니다",
	}

	for key, text := range ko {
		_ = b.SetString(language.English, key, key)
		_ = b.SetString(language.Korean, key, text)
	}
	return b
}

// Match picks the best supported language for an Accept-Language value.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, idx, _ := matcher.Match(tags...)
	return supported[idx]
}

// Printer returns a printer for tag backed by the message catalog.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}

// FromRequest returns a printer for the language the client asked for.
func FromRequest(r *http.Request) *message.Printer {
	return Printer(Match(r.Header.Get("Accept-Language")))
}

// T translates key for the request's language.
func T(r *http.Request, key string, args ...interface{}) string {
	return FromRequest(r).Sprintf(key, args...)
}
