// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

// huffmanBootstrap is one (start_symbol, bit_length) pair of the compact
// bootstrap notation used to build the two fixed-Huffman trees in RFC 1951
// §3.2.6. A pair extends code assignment from StartSymbol up to (but not
// including) the next pair's StartSymbol. The final pair carries
// BitLength == -1 and is not itself assigned a code.
type huffmanBootstrap struct {
	StartSymbol int
	BitLength   int
}

// huffmanCode is one assigned canonical code: Symbol decodes from the
// Length-bit pattern Code, read in the tree's bit order.
type huffmanCode struct {
	Symbol int
	Length int
	Code   int
}

// HuffmanTree is a canonical-Huffman decoder (RFC 1951 §3.2.2). It holds the
// assigned (length, code, symbol) triples and resolves a bit stream one bit
// at a time into a symbol.
type HuffmanTree struct {
	codes []huffmanCode
}

// NewHuffmanTreeFromLengths builds the canonical code over lengths, where
// lengths[s] is the code length in bits assigned to symbol s (0 means the
// symbol is unused). Codes are assigned in ascending (length, symbol) order.
func NewHuffmanTreeFromLengths(lengths []int) *HuffmanTree {
	maxLen := 0
	for _, l := range lengths {
		if l > maxLen {
			maxLen = l
		}
	}

	blCount := make([]int, maxLen+1)
	for _, l := range lengths {
		if l > 0 {
			blCount[l]++
		}
	}

	nextCode := make([]int, maxLen+1)
	code := 0
	for l := 1; l <= maxLen; l++ {
		code = (code + blCount[l-1]) << 1
		nextCode[l] = code
	}

	var codes []huffmanCode
	for symbol, l := range lengths {
		if l == 0 {
			continue
		}
		codes = append(codes, huffmanCode{Symbol: symbol, Length: l, Code: nextCode[l]})
		nextCode[l]++
	}

	return &HuffmanTree{codes: codes}
}

// NewHuffmanTreeFromBootstrap expands a bootstrap table into an explicit
// length vector and builds the canonical code over it, as used for DEFLATE's
// fixed literal/length and distance trees.
func NewHuffmanTreeFromBootstrap(pairs []huffmanBootstrap) *HuffmanTree {
	var lengths []int
	for i := 0; i < len(pairs)-1; i++ {
		start := pairs[i].StartSymbol
		end := pairs[i+1].StartSymbol
		bl := pairs[i].BitLength
		for len(lengths) < end {
			lengths = append(lengths, 0)
		}
		for s := start; s < end; s++ {
			lengths[s] = bl
		}
	}
	return NewHuffmanTreeFromLengths(lengths)
}

// DecodeNext reads bits one at a time from r, MSB-first within the growing
// accumulator (each new bit becomes the least-significant bit), descending
// the set of assigned codes until exactly one matches. It returns -1 if the
// input is exhausted or no assigned code matches the bits read so far within
// the widest assigned code length.
func (h *HuffmanTree) DecodeNext(r *BitReader) (int, error) {
	if len(h.codes) == 0 {
		return -1, nil
	}

	maxLen := 0
	for _, c := range h.codes {
		if c.Length > maxLen {
			maxLen = c.Length
		}
	}

	acc := 0
	for length := 1; length <= maxLen; length++ {
		bit, err := r.Bit()
		if err != nil {
			return -1, nil
		}
		acc = (acc << 1) | bit

		for _, c := range h.codes {
			if c.Length == length && c.Code == acc {
				return c.Symbol, nil
			}
		}
	}
	return -1, nil
}
