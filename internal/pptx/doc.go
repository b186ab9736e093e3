// Package pptx groups the container-level building blocks used to edit
// PresentationML packages without an object model.
//
// Sub-packages, leaf first:
//
//   - container: zip entry lookup and order-preserving re-serialisation
//   - rels: relationship parsing and slide -> notes part resolution
//   - textbody: byte-splicing rewrite of a notes text body
//
// None of these packages writes to disk. Committing a rewritten container
// is the job of a driven.Committer.
package pptx
