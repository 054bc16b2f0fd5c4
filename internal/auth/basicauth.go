// Package auth はBasic認証のクレデンシャル解析・パスワード検証・認証判定を提供する。
package auth

import (
	"encoding/base64"
	"strings"
)

// Credentials はAuthorizationヘッダーから抽出したクレデンシャルペアを表す。
// Secretは空文字列の場合がある（nilにはならない）。
type Credentials struct {
	Name   string
	Secret string
}

// ParseBasicAuth はAuthorizationヘッダーの値からBasic認証のクレデンシャルを抽出する。
// ヘッダーが空・スキームがBasicでない・base64デコード不可・コロンを含まない、の
// いずれの場合も「クレデンシャルなし」(ok=false)を返す。エラーにはしない。
// ペイロードは最初のコロンで分割するため、シークレットにコロンを含められる。
func ParseBasicAuth(header string) (Credentials, bool) {
	const prefix = "Basic "

	if header == "" {
		return Credentials{}, false
	}
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return Credentials{}, false
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return Credentials{}, false
	}

	name, secret, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return Credentials{}, false
	}

	return Credentials{Name: name, Secret: secret}, true
}
