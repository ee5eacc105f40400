package ast

// CallGraphHeights computes, per function, its height in the function call
// graph: 0 for functions calling no other program function, otherwise
// 1 + max(height of callees). Recursive cycles share one height (callees
// inside the same strongly-connected component are ignored for the max), so
// mutually recursive functions land in the same axiom block regardless of
// declaration order. Callers use heights to order cross-function axiom
// emission so that axioms a function depends on are declared first.
func (p *Program) CallGraphHeights() []int {
	n := len(p.Functions)
	heights := make([]int, n)
	comp := make([]int, n) // компонента сильной связности, -1 до свёртки
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := 0; i < n; i++ {
		comp[i] = -1
		index[i] = -1
	}

	var stack []FuncID
	var compHeights []int
	next := 0

	// Тарьян: компонента закрывается после всех своих потомков, поэтому
	// высоты внешних компонент уже известны в момент свёртки.
	var connect func(v FuncID)
	connect = func(v FuncID) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range p.Callees(v) {
			if index[w] < 0 {
				connect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] && index[w] < low[v] {
				low[v] = index[w]
			}
		}

		if low[v] != index[v] {
			return
		}
		id := len(compHeights)
		var members []FuncID
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			comp[w] = id
			members = append(members, w)
			if w == v {
				break
			}
		}
		h := 0
		for _, m := range members {
			for _, w := range p.Callees(m) {
				// рёбра внутри компоненты не поднимают высоту
				if comp[w] != id {
					if ch := compHeights[comp[w]] + 1; ch > h {
						h = ch
					}
				}
			}
		}
		compHeights = append(compHeights, h)
		for _, m := range members {
			heights[m] = h
		}
	}
	for i := 0; i < n; i++ {
		if index[i] < 0 {
			connect(FuncID(i))
		}
	}
	return heights
}

// Callees returns the distinct program functions applied anywhere in the
// function's preconditions, postconditions or body, in first-seen order.
func (p *Program) Callees(id FuncID) []FuncID {
	fn := &p.Functions[id]
	seen := make(map[FuncID]bool)
	var out []FuncID
	collect := func(root ExprID) {
		p.WalkExpr(root, func(_ ExprID, e *Expr) bool {
			if e.Kind == ExprFuncApp {
				callee := FuncID(e.Ref)
				if !seen[callee] {
					seen[callee] = true
					out = append(out, callee)
				}
			}
			return true
		})
	}
	for _, pre := range fn.Pres {
		collect(pre)
	}
	for _, post := range fn.Posts {
		collect(post)
	}
	collect(fn.Body)
	return out
}

// IsRecursive reports whether the function applies itself (directly) in its
// own body.
func (p *Program) IsRecursive(id FuncID) bool {
	for _, callee := range p.Callees(id) {
		if callee == id {
			return true
		}
	}
	return false
}
