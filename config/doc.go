// Package config builds rule trees from declarative YAML definitions.
//
// A definition mirrors the tree shape: every node has a name and a kind,
// leaves carry a value, branches carry children, and any node may carry
// rule expressions. Children may claim an explicit percent of their
// parent's traffic; branches whose children claim nothing are split
// evenly after the build. A branch should give percents to all of its
// children or to none: a branch left partly allocated fails validation.
//
//	root:
//	  name: router
//	  kind: branch
//	  children:
//	    - name: equities
//	      kind: branch
//	      percent: 60
//	      rules:
//	        - request.qty <= 500
//	      children:
//	        - name: nyse
//	          kind: leaf
//	          value: NYSE
//	        - name: nasdaq
//	          kind: leaf
//	          value: NASDAQ
//	    - name: dark
//	      kind: branch
//	      percent: 40
//	      children:
//	        - name: sigma
//	          kind: leaf
//	          value: SIGMA
//
// Rule expressions are compiled by a RuleCompiler, typically a
// cel.Compiler for the tree's request type. Leaf values are decoded into
// the tree's result type, so T can be a plain string as well as a struct.
package config
