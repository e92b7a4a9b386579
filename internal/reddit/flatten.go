package reddit

const (
	kindListing = "Listing"
	kindComment = "t1"
	kindPost    = "t3"
)

// flatten walks a comment forest depth-first and returns one Comment per t1
// node, parents before their replies and replies before later siblings.
func flatten(root *listing) []Comment {
	if root == nil {
		return nil
	}
	var out []Comment
	stack := pushReversed(nil, root.Data.Children)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.Kind != kindComment {
			continue
		}
		out = append(out, toComment(node.Data))
		if nested := node.Data.Replies.listing; nested != nil {
			stack = pushReversed(stack, nested.Data.Children)
		}
	}
	return out
}

func pushReversed(stack []*thing, children []thing) []*thing {
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, &children[i])
	}
	return stack
}

func toComment(d thingData) Comment {
	var c Comment
	if d.Body != nil {
		c.Text = *d.Body
	}
	if d.Score != nil {
		c.Upvotes = *d.Score
	}
	return c
}
