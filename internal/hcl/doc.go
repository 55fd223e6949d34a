// Package hcl loads graph definitions written in HCL.
//
// A graph file declares the scope id once and one block per node:
//
//	id = "demo@0.1.0"
//
//	node "two" {
//	  component = "value"
//	  data      = { value = 2 }
//	}
//
//	node "sum" {
//	  component = "add"
//	  input "terms" {
//	    from = ["two.value", "three.value"]
//	  }
//	}
//
// Each entry of an input's from list is "<node>.<output>". Connections are
// recorded on both ends, so output sockets need no declaration. Several files,
// or a directory of them, are merged into one graph.
package hcl
