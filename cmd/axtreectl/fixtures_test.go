package main

const (
	snapshotJSON = `{"root": 1, "nodes": [
  {"id": 1, "data": {"role": "window"}, "children": [2, 3]},
  {"id": 2, "data": "button", "children": [4]},
  {"id": 3, "data": "label"},
  {"id": 4, "data": "icon"}
]}`

	// updateJSON drops node 2 and with it node 4.
	updateJSON = `{"root": 1, "nodes": [{"id": 1, "data": {"role": "window"}, "children": [3]}]}`

	// badJSON references a node that does not exist.
	badJSON = `{"root": 1, "nodes": [{"id": 1, "children": [3, 99]}]}`

	// targetJSON is snapshotJSON plus node 5 under the root.
	targetJSON = `{"root": 1, "nodes": [
  {"id": 1, "data": {"role": "window"}, "children": [2, 3, 5]},
  {"id": 2, "data": "button", "children": [4]},
  {"id": 3, "data": "label"},
  {"id": 4, "data": "icon"},
  {"id": 5, "data": "new"}
]}`

	updateYAML = `
root: 1
nodes:
  - id: 1
    data: {role: window}
    children: [3]
`
)
