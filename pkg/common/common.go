package common

import (
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var idNode *snowflake.Node

func init() {
	nodeID := cast.ToInt64(os.Getenv("STOREFRONT_NODE_ID")) % 1024
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		panic(err)
	}
	idNode = node
}

// UUIDint64 generates a snowflake-based int64 identifier.
func UUIDint64() int64 {
	return idNode.Generate().Int64()
}

// TitleWords normalizes a display label so each word starts with an
// uppercase letter and the rest is lowercased ("meias e luvas" -> "Meias E Luvas").
func TitleWords(s string) string {
	caser := cases.Title(language.BrazilianPortuguese)
	return caser.String(strings.ToLower(strings.TrimSpace(s)))
}

// FileExists reports whether path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
