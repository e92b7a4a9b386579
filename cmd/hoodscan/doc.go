// Hoodscan is a CLI that turns a Reddit housing thread into a ranked report
// of Los Angeles neighborhoods.
//
// It downloads the thread, counts how often each configured neighborhood is
// mentioned and how many upvotes those comments earned, and asks an LLM
// provider for the pros and cons of every mentioned neighborhood. Every
// stage writes a JSON checkpoint to the data directory.
//
// Usage:
//
//	hoodscan                          # analyze the default thread
//	hoodscan <thread-url>             # analyze another thread
//	hoodscan --format markdown        # render the report as markdown
//	hoodscan neighborhoods            # show the alias table
//	hoodscan history                  # list previous runs
package main
