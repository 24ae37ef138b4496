package parser

const (
	// Item kinds reported for annotated declarations
	ItemFunction    = "fn"
	ItemStruct      = "struct"
	ItemEnum        = "enum"
	ItemUnion       = "union"
	ItemTrait       = "trait"
	ItemImpl        = "impl"
	ItemModule      = "mod"
	ItemTypeAlias   = "type"
	ItemStatic      = "static"
	ItemConst       = "const"
	ItemUse         = "use"
	ItemExternCrate = "extern crate"
	ItemExternBlock = "extern block"
	ItemMacro       = "macro"
	ItemUnknown     = "item"
)

// itemKeywords maps the keyword that introduces an item to its kind
var itemKeywords = map[string]string{
	"fn":          ItemFunction,
	"struct":      ItemStruct,
	"enum":        ItemEnum,
	"union":       ItemUnion,
	"trait":       ItemTrait,
	"impl":        ItemImpl,
	"mod":         ItemModule,
	"type":        ItemTypeAlias,
	"static":      ItemStatic,
	"use":         ItemUse,
	"macro_rules": ItemMacro,
}
