package terms

// Symbol constructors for the sequence theory. Names are suffixed with the
// element sort so each instantiation declares a distinct symbol family; they
// must match the preamble templates verbatim.

func seqFun(base string, elem Sort, args []Sort, result Sort) FunctionSymbol {
	return FunctionSymbol{Name: base + "<" + elem.ID() + ">", Args: args, Result: result}
}

func SeqLength(elem Sort) FunctionSymbol {
	return seqFun("Seq_length", elem, []Sort{SeqSort(elem)}, IntSort)
}

func SeqEmpty(elem Sort) FunctionSymbol {
	return seqFun("Seq_empty", elem, nil, SeqSort(elem))
}

func SeqSingleton(elem Sort) FunctionSymbol {
	return seqFun("Seq_singleton", elem, []Sort{elem}, SeqSort(elem))
}

func SeqBuild(elem Sort) FunctionSymbol {
	return seqFun("Seq_build", elem, []Sort{SeqSort(elem), elem}, SeqSort(elem))
}

func SeqIndex(elem Sort) FunctionSymbol {
	return seqFun("Seq_index", elem, []Sort{SeqSort(elem), IntSort}, elem)
}

func SeqAppend(elem Sort) FunctionSymbol {
	return seqFun("Seq_append", elem, []Sort{SeqSort(elem), SeqSort(elem)}, SeqSort(elem))
}

func SeqUpdate(elem Sort) FunctionSymbol {
	return seqFun("Seq_update", elem, []Sort{SeqSort(elem), IntSort, elem}, SeqSort(elem))
}

func SeqTake(elem Sort) FunctionSymbol {
	return seqFun("Seq_take", elem, []Sort{SeqSort(elem), IntSort}, SeqSort(elem))
}

func SeqDrop(elem Sort) FunctionSymbol {
	return seqFun("Seq_drop", elem, []Sort{SeqSort(elem), IntSort}, SeqSort(elem))
}

func SeqContains(elem Sort) FunctionSymbol {
	return seqFun("Seq_contains", elem, []Sort{SeqSort(elem), elem}, BoolSort)
}

func SeqEqual(elem Sort) FunctionSymbol {
	return seqFun("Seq_equal", elem, []Sort{SeqSort(elem), SeqSort(elem)}, BoolSort)
}

// SeqRange and SeqSum belong to the integer tier and exist for Seq<Int>
// only, hence the unsuffixed names.

func SeqRange() FunctionSymbol {
	return FunctionSymbol{Name: "Seq_range", Args: []Sort{IntSort, IntSort}, Result: SeqSort(IntSort)}
}

func SeqSum() FunctionSymbol {
	return FunctionSymbol{Name: "Seq_sum", Args: []Sort{SeqSort(IntSort)}, Result: IntSort}
}
