// Package commands defines the loading-demo CLI.
//
// Commands
//
//   - run          Invoke actions in order and print every state transition
//   - interactive  Pick actions from a prompt until quitting
//   - burst        Fire overlapping invocations of one action
//
// The root command resolves decorator options from an optional config file
// plus flags, builds a zap logger, and creates the decorated demo counter
// store before any subcommand runs.
package commands
