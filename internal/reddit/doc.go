// Package reddit downloads a Reddit thread and flattens its comment forest.
//
// Threads are read from the public JSON rendering of a thread URL (the URL
// with a .json suffix). The response is a two-element array: the post
// listing followed by the comment listing. [Parse] walks the comment tree
// in pre-order with an explicit stack so deeply nested threads cannot grow
// the call stack.
package reddit
