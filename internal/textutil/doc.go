// Package textutil rewrites file names into portable form.
//
// Normalize transliterates Cyrillic into Latin and replaces shell- and
// filesystem-hostile punctuation with underscores.
package textutil
