package web

// Staking dashboard: summary cards plus a live transaction feed.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Stakeboard</title>
  <style>
    :root {
      --bg:#ffffff;
      --ink:#111111;
      --ink-mid:#4d4d4d;
      --ink-soft:#9c9c9c;
      --panel:#f6f6f6;
      --grid:rgba(0,0,0,0.1);
    }
    body { font-family: 'Space Mono', monospace; background: var(--bg); color: var(--ink); margin: 0; padding: 24px; }
    h1 { font-size: 18px; letter-spacing: 2px; text-transform: uppercase; }
    .cards { display: flex; gap: 16px; flex-wrap: wrap; margin-bottom: 24px; }
    .card { background: var(--panel); border: 1px solid var(--grid); padding: 16px 20px; min-width: 180px; }
    .card .label { color: var(--ink-soft); font-size: 11px; text-transform: uppercase; }
    .card .value { font-size: 22px; margin-top: 6px; }
    .status { color: var(--ink-mid); margin-bottom: 16px; }
    table { border-collapse: collapse; width: 100%; }
    th, td { border-bottom: 1px solid var(--grid); text-align: left; padding: 8px 12px; font-size: 13px; }
    th { color: var(--ink-soft); text-transform: uppercase; font-size: 11px; }
    .failed { color: #b00020; }
  </style>
</head>
<body>
  <h1>Stakeboard</h1>
  <div class="status" id="status">connecting&hellip;</div>
  <div class="cards">
    <div class="card"><div class="label">Total staked</div><div class="value" id="total-staked">-</div></div>
    <div class="card"><div class="label">Token staked</div><div class="value" id="token-staked">-</div></div>
    <div class="card"><div class="label">Unclaimed rewards</div><div class="value" id="token-rewards">-</div></div>
    <div class="card"><div class="label">Estimated accrual</div><div class="value" id="estimated">-</div></div>
  </div>
  <h1>Transactions</h1>
  <table>
    <thead><tr><th>Time</th><th>Type</th><th>Amount</th><th>Token</th><th>Status</th><th>Tx</th></tr></thead>
    <tbody id="txs"></tbody>
  </table>
  <script>
    const summarySource = new EventSource('/summary/stream');
    summarySource.addEventListener('summary', (e) => {
      const s = JSON.parse(e.data);
      document.getElementById('status').textContent = s.connected
        ? 'wallet ' + (s.address || '') + ' connected'
        : 'wallet disconnected';
      document.getElementById('total-staked').textContent = s.total_staked;
      document.getElementById('token-staked').textContent = s.token_staked;
      document.getElementById('token-rewards').textContent = s.token_rewards;
      document.getElementById('estimated').textContent = s.estimated_accrued;
    });

    const txSource = new EventSource('/transactions/stream');
    txSource.addEventListener('transaction', (e) => {
      const t = JSON.parse(e.data);
      const row = document.createElement('tr');
      const hash = t.tx_hash ? t.tx_hash.slice(0, 10) + '…' : '';
      row.innerHTML = '<td>' + new Date(t.timestamp).toLocaleTimeString() + '</td>' +
        '<td>' + t.type + '</td>' +
        '<td>' + t.amount + '</td>' +
        '<td>' + t.token + '</td>' +
        '<td class="' + (t.status === 'failed' ? 'failed' : '') + '">' + t.status + '</td>' +
        '<td>' + hash + '</td>';
      const body = document.getElementById('txs');
      body.insertBefore(row, body.firstChild);
    });
  </script>
</body>
</html>`
