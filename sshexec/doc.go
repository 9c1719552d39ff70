// Package sshexec runs git on a remote host over SSH.
//
// New returns a gitprocess.ExecFunc that opens one session per invocation
// on an established *ssh.Client:
//
//	client, err := ssh.Dial("tcp", "build-host:22", config)
//	...
//	result, err := gitprocess.Exec(ctx, []string{"fetch", "origin"}, "/srv/repo",
//	    gitprocess.WithExecFunc(sshexec.New(client)))
//
// LOCAL_GIT_DIRECTORY and GIT_EXEC_PATH must describe the git installation
// on the remote host. The remote exit status is reported through
// *ssh.ExitError, which gitprocess reads to classify failures.
package sshexec
