package locality

import "strings"

// Distance measures how far apart two files sit in the directory tree.
// Paths are split into directory components and the lowest common ancestor
// (longest shared prefix) is found; each file then contributes its number of
// directory steps up to the LCA, with a minimum of one step because the file
// itself occupies a slot in its directory. Two files in the same directory
// are therefore at distance 2, the minimum for any pair, and each extra
// level of separation between sibling subtrees adds to the total. The
// measure is symmetric.
func Distance(a, b string) int {
	da := dirComponents(a)
	db := dirComponents(b)

	lca := 0
	for lca < len(da) && lca < len(db) && da[lca] == db[lca] {
		lca++
	}

	return stepsToLCA(len(da), lca) + stepsToLCA(len(db), lca)
}

func stepsToLCA(depth, lca int) int {
	if steps := depth - lca; steps > 1 {
		return steps
	}
	return 1
}

func dirComponents(p string) []string {
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")
	if len(parts) <= 1 {
		return nil // file at repo root
	}
	return parts[:len(parts)-1]
}
