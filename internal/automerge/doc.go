// Package automerge decides per github event if an open pull request is
// eligible for auto-merging and executes the matching merge mutation.
//
// One event is evaluated per invocation. Eligibility requires that the pull
// request is mergeable, not merged yet and open. The merge strategy is chosen
// from the most recent review state: approved pull requests are merged with a
// merge commit, all others are squashed.
//
// Processing failures never propagate out of the agent, they are logged and
// reported as structured outcomes.
package automerge
