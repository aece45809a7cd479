package text

// Slice returns the 1-based inclusive subrange [first, last]. Negative
// indices count from the end (-1 is the last grapheme); 0 as first is
// invalid and yields the empty text for last. Out-of-range clamps to an
// empty result. Slicing a leaf shares the leaf's backing storage;
// slicing a subtext walks forward, skipping fully elided children and
// slicing the boundary children.
func Slice(t Text, first, last int64) Text {
	if first == 0 || last == 0 {
		return Empty
	}
	if first < 0 {
		first = t.length + first + 1
	}
	if last < 0 {
		last = t.length + last + 1
	}
	if last > t.length {
		last = t.length
	}
	if first > t.length || last < first || first < 1 {
		return Empty
	}
	if first == 1 && last == t.length {
		return t
	}

	switch t.tag {
	case kindShortASCII:
		ret := Text{tag: kindShortASCII, length: last - first + 1}
		copy(ret.shortASCII[:], t.shortASCII[first-1:last])
		return ret
	case kindASCII:
		return Text{tag: kindASCII, length: last - first + 1, ascii: t.ascii[first-1 : last]}
	case kindShortGraphemes:
		ret := Text{tag: kindShortGraphemes, length: last - first + 1}
		copy(ret.shortGraphemes[:], t.shortGraphemes[first-1:last])
		return ret
	case kindGraphemes:
		return Text{tag: kindGraphemes, length: last - first + 1, graphemes: t.graphemes[first-1 : last]}
	case kindSubtext:
		// Walk forward past fully elided children; the suffix view
		// shares the parent's backing array.
		subs := t.subtexts
		for {
			head, _ := subs.Get(1)
			if first <= head.length {
				break
			}
			first -= head.length
			last -= head.length
			subs = subs.Slice(2, subs.Len())
		}

		neededLen := last - first + 1
		total := neededLen
		numSubs := 0
		for included := int64(0); included < neededLen; numSubs++ {
			child, _ := subs.Get(numSubs + 1)
			if included == 0 {
				included += child.length - first + 1
			} else {
				included += child.length
			}
		}
		if numSubs == 1 {
			head, _ := subs.Get(1)
			return Slice(head, first, last)
		}

		children := make([]Text, numSubs)
		for i := 0; i < numSubs; i++ {
			child, _ := subs.Get(i + 1)
			children[i] = Slice(child, first, last)
			first = 1
			neededLen -= children[i].length
			last = first + neededLen - 1
		}
		return newSubtext(total, children)
	}
	return Empty
}
