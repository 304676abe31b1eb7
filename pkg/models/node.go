package models

// NodeKind classifies a node in the content graph.
type NodeKind string

const (
	NodeWordInstance NodeKind = "word_instance"
	NodeVerse        NodeKind = "verse"
	NodeChapter      NodeKind = "chapter"
	NodeLemma        NodeKind = "lemma"
	NodeRoot         NodeKind = "root"
)

// Node is an immutable content graph node. Content is owned by the
// content store; the engine only ever reads nodes.
type Node struct {
	ID   string   `json:"id" db:"id"`
	Kind NodeKind `json:"kind" db:"kind"`
}
