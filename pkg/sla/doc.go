// Package sla is the engine core for Scribus SLA markup: the document
// wrapper, the placeholder substitutor, and the merge assembler. All editing
// is text-level and offset-indexed so bytes outside the regions the engine
// touches are preserved exactly.
package sla
