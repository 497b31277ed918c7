// File: events_linux.go

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package popol

// x/sys/unix does not export POLLWRBAND for linux; the kernel defines
// it as 0x200 (see <asm-generic/poll.h>).
const pollWrBand Events = 0x200
