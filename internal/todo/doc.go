// Package todo owns the task collection and its persisted mirror.
//
// The collection is stored as a single blob under one key of a
// storage.Store. The blob is a JSON array of task records:
//
//	[
//	  {
//	    "id": "1733821200000",
//	    "title": "Write report",
//	    "description": "Quarterly numbers",
//	    "dueDate": "2024-12-15",
//	    "priority": "high",
//	    "project": "general",
//	    "completed": false,
//	    "createdAt": "2024-12-10T09:00:00.000Z"
//	  }
//	]
//
// # Loading
//
// Loading is tolerant. A missing blob yields an empty collection. A blob that
// is not a JSON array also yields an empty collection; the raw bytes are
// copied to "<key>.corrupt" and the problem is reported in the LoadReport.
// Each array entry is checked against an embedded JSON Schema and entries
// that fail are skipped individually. Unknown fields are ignored so older
// and newer layouts keep loading.
//
// # Writing
//
// Every successful mutation rewrites the whole blob: 2-space indentation and
// a trailing newline. There is no batching, so each mutation costs O(n) in
// the collection size. That is fine for a personal list of a few hundred
// tasks and is the ceiling of this design.
//
// # Not found
//
// Operations that reference a missing task id do nothing and return
// found=false. They never return an error for that case.
package todo
